package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mining_operations_total",
			Help: "Total mining operations by outcome",
		},
		[]string{"op", "status"},
	)
	EventsPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mining_events_published_total",
			Help: "Total events pushed to the live feed",
		},
	)
)

func init() {
	prometheus.MustRegister(OpsTotal)
	prometheus.MustRegister(EventsPublished)
}

func trackOp(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	OpsTotal.WithLabelValues(op, status).Inc()
}
