package models

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bodyCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "body_count",
		Help: "The number of bodies held by body stores.",
	})

	bodyCountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "body_count_total",
		Help: "The total number of bodies added to body stores.",
	})
)

func instrumentAddBody() {
	bodyCount.Inc()
	bodyCountTotal.Inc()
}

func instrumentDeleteBody() {
	bodyCount.Dec()
}
