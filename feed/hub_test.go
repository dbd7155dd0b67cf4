package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

type message struct {
	Step  int    `json:"step"`
	Label string `json:"label"`
}

func TestHubSubscribe(t *testing.T) {
	h := NewHub(0)
	require.Equal(t, DefaultQueueSize, h.queueSize)

	id1, _ := h.Subscribe()
	id2, _ := h.Subscribe()
	require.Equal(t, uint32(1), id1)
	require.Equal(t, uint32(2), id2)
	require.Equal(t, 2, h.Len())

	h.Unsubscribe(id1)
	require.Equal(t, 1, h.Len())

	id3, _ := h.Subscribe()
	require.Equal(t, id1, id3)

	h.Unsubscribe(42)
	require.Equal(t, 2, h.Len())
}

func TestHubPublish(t *testing.T) {
	h := NewHub(4)
	_, queue := h.Subscribe()

	err := h.Publish(message{Step: 1, Label: "hello"})
	require.NoError(t, err)

	var msg message
	err = json.Unmarshal(<-queue, &msg)
	require.NoError(t, err)
	require.Equal(t, message{Step: 1, Label: "hello"}, msg)

	err = h.Publish(func() {})
	require.Error(t, err)
}

func TestHubPublishDropsWhenQueueIsFull(t *testing.T) {
	h := NewHub(2)
	_, slow := h.Subscribe()
	_, fast := h.Subscribe()

	for i := 0; i < 3; i++ {
		require.NoError(t, h.Publish(message{Step: i}))
		<-fast
	}

	require.Equal(t, 1, h.Dropped())
	require.Len(t, slow, 2)
}

func TestHubClose(t *testing.T) {
	h := NewHub(2)
	_, queue := h.Subscribe()

	h.Close()
	require.Zero(t, h.Len())

	_, ok := <-queue
	require.False(t, ok)

	_, queue = h.Subscribe()
	_, ok = <-queue
	require.False(t, ok)
	require.Zero(t, h.Len())
}

func TestHubHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(4)
	defer h.Close()

	server := httptest.NewServer(websocket.Server{
		Handshake: func(c *websocket.Config, r *http.Request) error {
			return nil
		},
		Handler: h.Handler(ctx),
	})
	defer server.Close()

	config, err := websocket.NewConfig(strings.ReplaceAll(server.URL, "http://", "ws://"), "http://localhost")
	require.NoError(t, err)

	conn, err := websocket.DialConfig(config)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return h.Len() == 1
	}, time.Second, time.Millisecond*10)

	err = h.Publish(message{Step: 7, Label: "frame"})
	require.NoError(t, err)

	var data string
	conn.SetReadDeadline(time.Now().Add(time.Second * 5))
	err = websocket.Message.Receive(conn, &data)
	require.NoError(t, err)

	var msg message
	err = json.Unmarshal([]byte(data), &msg)
	require.NoError(t, err)
	require.Equal(t, message{Step: 7, Label: "frame"}, msg)

	cancel()
	require.Eventually(t, func() bool {
		return h.Len() == 0
	}, time.Second, time.Millisecond*10)
}
