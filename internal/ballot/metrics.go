package ballot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ballotsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evote_ballots_accepted_total",
		Help: "Ballots stored and published, by submission kind",
	}, []string{"kind"})

	ballotsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evote_ballots_rejected_total",
		Help: "Ballots rejected, by reason",
	}, []string{"reason"})
)
