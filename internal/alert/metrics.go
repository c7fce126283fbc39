package alert

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	alertsProduced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evote_alerts_produced_total",
		Help: "Integrity alerts delivered to kafka",
	})
	alertsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evote_alerts_failed_total",
		Help: "Integrity alerts kafka failed to accept",
	})
)
