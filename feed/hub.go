// Package feed broadcasts JSON messages to websocket clients.
package feed

import (
	"context"
	"io"
	"net"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/hagall-common/errors"
	"github.com/aukilabs/octree/models"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

const DefaultQueueSize = 32

// Hub fans published messages out to its subscribers. Publishing never
// blocks: a subscriber whose queue is full misses the message.
type Hub struct {
	queueSize int

	ids         models.SequentialIDGenerator
	mutex       sync.RWMutex
	subscribers map[uint32]chan []byte
	dropped     int
	closed      bool
}

func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Hub{
		queueSize:   queueSize,
		subscribers: make(map[uint32]chan []byte),
	}
}

// Publish encodes v to JSON and queues it for every subscriber.
func (h *Hub) Publish(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.New("encoding feed message failed").Wrap(err)
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, queue := range h.subscribers {
		select {
		case queue <- data:
		default:
			h.dropped++
			instrumentDrop()
		}
	}
	return nil
}

// Subscribe registers a new subscriber. The returned channel is closed when
// the subscriber is unsubscribed or when the hub is closed.
func (h *Hub) Subscribe() (uint32, <-chan []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	queue := make(chan []byte, h.queueSize)
	if h.closed {
		close(queue)
		return 0, queue
	}

	id := h.ids.New()
	h.subscribers[id] = queue
	instrumentSubscribe()
	return id, queue
}

func (h *Hub) Unsubscribe(id uint32) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	queue, ok := h.subscribers[id]
	if !ok {
		return
	}

	delete(h.subscribers, id)
	close(queue)
	h.ids.Reuse(id)
	instrumentUnsubscribe()
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.subscribers)
}

// Dropped returns the number of messages that were not delivered.
func (h *Hub) Dropped() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return h.dropped
}

// Close unsubscribes everyone.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, queue := range h.subscribers {
		delete(h.subscribers, id)
		close(queue)
		instrumentUnsubscribe()
	}
	h.closed = true
}

// Handler returns a websocket handler streaming the hub messages as text
// frames until ctx is done, the hub is closed or the client goes away.
func (h *Hub) Handler(ctx context.Context) websocket.Handler {
	return func(conn *websocket.Conn) {
		defer conn.Close()

		id, queue := h.Subscribe()
		defer h.Unsubscribe(id)

		logs.WithTag("subscriber_id", id).
			WithTag("remote_addr", conn.Request().RemoteAddr).
			Info("feed subscriber connected")

		defer logs.WithTag("subscriber_id", id).
			Info("feed subscriber disconnected")

		for {
			select {
			case <-ctx.Done():
				return

			case data, ok := <-queue:
				if !ok {
					return
				}

				if err := websocket.Message.Send(conn, string(data)); err != nil {
					if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
						logs.WithTag("subscriber_id", id).
							Warn(errors.New("sending feed message failed").Wrap(err))
					}
					return
				}
				instrumentSend()
			}
		}
	}
}
