package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecostory_cycles_total",
			Help: "Generation cycles by outcome (complete, degraded, unparsed, story_failed, scene_failed).",
		},
		[]string{"outcome"},
	)
	panelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecostory_panels_total",
			Help: "Comic panels by image status.",
		},
		[]string{"status"},
	)
)
