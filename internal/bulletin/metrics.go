package bulletin

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	boardAppends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evote_board_appends_total",
		Help: "Leaves appended to the bulletin board",
	})

	positionRaces = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evote_board_position_races_total",
		Help: "Appends that lost a position race despite the sequence lock",
	})
)
