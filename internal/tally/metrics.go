package tally

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tallyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evote_tally_duration_seconds",
		Help:    "Time to aggregate and decrypt an election",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"mode"})

	decryptCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evote_tally_decrypt_calls_total",
		Help: "Aggregate decryptions performed",
	})

	sentinelRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evote_tally_sentinel_rows_total",
		Help: "Tally rows reported as a sentinel instead of a count",
	}, []string{"status"})
)
