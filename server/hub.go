package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"heatload/calculator"
	"heatload/config"
	"heatload/model"
)

// 消息类型
const (
	TypeEvaluate = "evaluate"
	TypeResult   = "result"
	TypeDefaults = "defaults"
	TypeFluids   = "fluids"
	TypeError    = "error"
)

// Result is the content of a "result" reply.
type Result struct {
	Input      model.FormInput         `json:"input"`
	Breakdown  model.HeatLoadBreakdown `json:"breakdown"`
	Components []model.Component       `json:"components"`
	Values     map[string]float64      `json:"values"`
}

// Hub serves one websocket connection: requests are read into msg and answered in order on
// reply.
type Hub struct {
	c      calculator.Calculator
	cfg    *config.Config
	fluids []model.Fluid
	conn   *websocket.Conn
	// request
	msg chan model.Msg
	// response
	reply chan model.Msg
	done  chan struct{}
}

func NewHub(conn *websocket.Conn, c calculator.Calculator, cfg *config.Config, fluids []model.Fluid) *Hub {
	return &Hub{
		c:      c,
		cfg:    cfg,
		fluids: fluids,
		conn:   conn,
		msg:    make(chan model.Msg, 10),
		reply:  make(chan model.Msg, 10),
		done:   make(chan struct{}),
	}
}

// Run blocks until the peer disconnects.
func (h *Hub) Run() {
	defer h.conn.Close()
	go h.handleRequest()
	go h.handleResponse()
	defer close(h.done)
	for {
		var msg model.Msg
		if err := h.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("读取消息失败")
			}
			return
		}
		select {
		case h.msg <- msg:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.reply:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.WithError(err).Warn("发送消息失败")
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			reply := h.dispatch(msg)
			select {
			case h.reply <- reply:
			case <-h.done:
				return
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) dispatch(msg model.Msg) model.Msg {
	switch msg.Type {
	case TypeEvaluate:
		return h.evaluate(msg.Content)
	case TypeDefaults:
		return jsonReply(TypeDefaults, h.cfg.Form)
	case TypeFluids:
		return jsonReply(TypeFluids, h.fluids)
	default:
		log.WithField("type", msg.Type).Warn("no such type")
		return model.Msg{Type: TypeError, Content: fmt.Sprintf("unknown message type %q", msg.Type)}
	}
}

func (h *Hub) evaluate(content string) model.Msg {
	var in model.FormInput
	if err := json.Unmarshal([]byte(content), &in); err != nil {
		return errorReply(fmt.Errorf("invalid form input: %w", err))
	}
	if err := h.cfg.CheckForm(in); err != nil {
		return errorReply(err)
	}
	spec, err := in.ToSpec()
	if err != nil {
		return errorReply(err)
	}

	start := time.Now()
	b, err := h.c.Evaluate(spec)
	observe(spec.Direction, err, time.Since(start))
	if err != nil {
		log.WithFields(log.Fields{
			"fluid":     in.Fluid,
			"pressure":  in.PressureBar,
			"direction": in.Direction,
		}).WithError(err).Info("计算失败")
		return errorReply(err)
	}
	return jsonReply(TypeResult, Result{
		Input:      in,
		Breakdown:  b,
		Components: b.Components(),
		Values:     b.AsMap(),
	})
}

func jsonReply(typ string, v interface{}) model.Msg {
	data, err := json.Marshal(v)
	if err != nil {
		return errorReply(err)
	}
	return model.Msg{Type: typ, Content: string(data)}
}

func errorReply(err error) model.Msg {
	return model.Msg{Type: TypeError, Content: "Calculation error: " + err.Error()}
}
