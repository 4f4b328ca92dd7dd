package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"coffee-pos/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishQueuesAndDropsWhenFull(t *testing.T) {
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))

	h.Publish(context.Background(), events.New(events.TypeStockUpdate, "order_placed", "2", map[string]any{"quantity": 3}))
	require.Len(t, h.Broadcast, 1)

	var got map[string]any
	require.NoError(t, json.Unmarshal(<-h.Broadcast, &got))
	assert.Equal(t, events.TypeStockUpdate, got["type"])
	assert.NotContains(t, got, "Key")

	// Nobody is draining the queue; Publish must not block.
	for i := 0; i < cap(h.Broadcast)+10; i++ {
		h.Publish(context.Background(), events.New(events.TypeOrderPlaced, "order_created", "1", nil))
	}
	assert.Len(t, h.Broadcast, cap(h.Broadcast))
}

func TestHub_JoinAndLeaveReturnAfterStop(t *testing.T) {
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	returned := make(chan bool)
	go func() {
		joined := h.Join(nil)
		h.Leave(nil)
		returned <- joined
	}()

	select {
	case joined := <-returned:
		assert.False(t, joined)
	case <-time.After(time.Second):
		t.Fatal("Join/Leave blocked on a stopped hub")
	}
}
