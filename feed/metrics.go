package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feed_subscribers",
		Help: "The number of clients subscribed to the collision feed.",
	})

	feedSentMsgs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_sent_msgs",
		Help: "The number of messages sent to collision feed subscribers.",
	})

	feedDroppedMsgs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_dropped_msgs",
		Help: "The number of messages dropped because a subscriber was too slow.",
	})
)

func instrumentSubscribe() {
	feedSubscribers.Inc()
}

func instrumentUnsubscribe() {
	feedSubscribers.Dec()
}

func instrumentSend() {
	feedSentMsgs.Inc()
}

func instrumentDrop() {
	feedDroppedMsgs.Inc()
}
