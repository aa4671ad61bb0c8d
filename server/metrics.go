package server

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"heatload/calculator"
	"heatload/model"
)

var (
	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heatload_evaluations_total",
		Help: "Heat-load evaluations by direction and outcome",
	}, []string{"direction", "outcome"})

	evaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "heatload_evaluation_duration_seconds",
		Help:    "Heat-load evaluation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	}, []string{"direction"})
)

func outcome(err error) string {
	var invalid *calculator.InvalidSpecError
	var lookup *calculator.PropertyLookupError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &invalid):
		return "invalid_spec"
	case errors.As(err, &lookup):
		return "lookup_error"
	default:
		return "error"
	}
}

func observe(direction model.Direction, err error, d time.Duration) {
	evaluationsTotal.WithLabelValues(direction.String(), outcome(err)).Inc()
	evaluationDuration.WithLabelValues(direction.String()).Observe(d.Seconds())
}
