package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"heatload/calculator"
	"heatload/config"
	"heatload/model"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	c        calculator.Calculator
	cfg      *config.Config
	fluids   []model.Fluid
}

func NewServer(cfg *config.Config, c calculator.Calculator, fluids []model.Fluid, upgrader websocket.Upgrader) *Server {
	return &Server{
		addr:     cfg.Addr,
		upgrader: upgrader,
		c:        c,
		cfg:      cfg,
		fluids:   fluids,
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	hub := NewHub(conn, s.c, s.cfg, s.fluids)
	hub.Run()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Serve() error {
	log.WithField("addr", s.addr).Info("启动热负荷计算服务")
	return http.ListenAndServe(s.addr, s.Handler())
}
