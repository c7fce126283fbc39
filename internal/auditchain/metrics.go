package auditchain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entriesAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evote_audit_entries_appended_total",
		Help: "Entries appended to the admin audit chain",
	}, []string{"action"})
	chainBreaks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "evote_audit_chain_breaks",
		Help: "Breaks plus tampered entries found by the last chain check",
	})
	alertsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evote_audit_chain_alerts_total",
		Help: "Chain break alerts delivered",
	})
	alertsThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evote_audit_chain_alerts_throttled_total",
		Help: "Chain break alerts suppressed inside the throttle window",
	})
)
