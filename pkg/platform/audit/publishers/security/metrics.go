package security

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsReported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evote_security_events_total",
		Help: "Security events reported, by action",
	}, []string{"action"})

	eventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evote_security_events_dropped_total",
		Help: "Security events evicted from the buffer before being persisted",
	})

	persistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evote_security_events_persist_failures_total",
		Help: "Batches of security events that failed to persist",
	})

	bufferDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "evote_security_events_buffer_depth",
		Help: "Security events waiting to be persisted",
	})
)
