package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"chatshare-be/internal/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, rdb *redis.Client) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(rdb, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func connect(t *testing.T, hub *Hub, userID uuid.UUID) *Client {
	t.Helper()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	hub.register <- client
	require.Eventually(t, func() bool { return hub.Connected(userID) > 0 }, time.Second, 5*time.Millisecond)
	return client
}

func receive(t *testing.T, client *Client) Frame {
	t.Helper()
	select {
	case data := <-client.Send:
		var frame Frame
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered")
		return Frame{}
	}
}

func TestHub_DeliversToEveryConnection(t *testing.T) {
	hub := startHub(t, nil)
	userID := uuid.New()
	phone := connect(t, hub, userID)
	laptop := connect(t, hub, userID)
	assert.Equal(t, 2, hub.Connected(userID))

	frame := Frame{Type: "collaboration.invited", Data: map[string]interface{}{"chat_id": "c1"}}
	require.NoError(t, hub.Send(context.Background(), userID, frame))

	assert.Equal(t, frame.Type, receive(t, phone).Type)
	assert.Equal(t, "c1", receive(t, laptop).Data["chat_id"])

	// Nobody connected is not an error.
	assert.NoError(t, hub.Send(context.Background(), uuid.New(), frame))
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t, nil)
	userID := uuid.New()
	client := connect(t, hub, userID)

	hub.unregister <- client
	require.Eventually(t, func() bool { return hub.Connected(userID) == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_SlowClientIsDroppedWhileSending(t *testing.T) {
	hub := startHub(t, nil)
	userID := uuid.New()
	client := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 1)}
	hub.register <- client
	require.Eventually(t, func() bool { return hub.Connected(userID) == 1 }, time.Second, 5*time.Millisecond)

	// Concurrent senders overflow the buffer while the hub removes the client.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = hub.Send(context.Background(), userID, Frame{Type: "chat.deleted"})
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return hub.Connected(userID) == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, client.dropped.Load())

	frames := 0
	for range client.Send {
		frames++
	}
	assert.Equal(t, 1, frames)
}

func TestHub_ClusterDelivery(t *testing.T) {
	mr := miniredis.RunT(t)
	newClient := func() *redis.Client {
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		return rdb
	}

	sender := startHub(t, newClient())
	receiver := startHub(t, newClient())
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(ClusterChannel)[ClusterChannel] == 2
	}, 2*time.Second, 10*time.Millisecond)

	userID := uuid.New()
	remote := connect(t, receiver, userID)
	local := connect(t, sender, userID)

	require.NoError(t, sender.Send(context.Background(), userID, Frame{Type: "chat.deleted"}))

	assert.Equal(t, "chat.deleted", receive(t, remote).Type)
	assert.Equal(t, "chat.deleted", receive(t, local).Type)

	// The sending node ignores its own cluster echo.
	select {
	case <-local.Send:
		t.Fatal("frame delivered twice on the sending node")
	case <-time.After(100 * time.Millisecond):
	}
}
