package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	togglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lightsout_toggles_total",
		Help: "Cell activations by outcome",
	}, []string{"outcome"})

	gamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lightsout_games_started_total",
		Help: "Sessions created",
	})

	gamesWon = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lightsout_games_won_total",
		Help: "Sessions that reached the won state",
	})

	movesPerWin = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lightsout_moves_per_win",
		Help:    "Moves taken to win a game",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1 to 512
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lightsout_active_sessions",
		Help: "Sessions held in memory",
	})
)
