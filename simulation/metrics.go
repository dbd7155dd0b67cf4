package simulation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	queryModeLabel = "query_mode"

	queryModeInside  = "inside"
	queryModeOutside = "outside"
)

var (
	simulationSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_steps_total",
		Help: "The total number of simulation steps.",
	}, []string{queryModeLabel})

	simulationCollisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_collisions_total",
		Help: "The total number of colliding body pairs found by simulation steps.",
	}, []string{queryModeLabel})

	simulationStepLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "simulation_step_latency",
		Help: "The time to run a simulation step.",
	}, []string{queryModeLabel})

	simulationBodies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "simulation_bodies",
		Help: "The number of bodies in the world.",
	})

	simulationLeafCells = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "simulation_leaf_cells",
		Help: "The number of leaf cells of the world octree.",
	})
)

func instrumentStep(queryMode string, start time.Time, collisions int) {
	labels := prometheus.Labels{queryModeLabel: queryMode}

	simulationSteps.With(labels).Inc()
	simulationCollisions.With(labels).Add(float64(collisions))
	simulationStepLatency.With(labels).Observe(time.Since(start).Seconds())
}

func instrumentTree(bodies, leaves int) {
	simulationBodies.Set(float64(bodies))
	simulationLeafCells.Set(float64(leaves))
}
