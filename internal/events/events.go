package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	TypeOrderPlaced = "order_placed"
	TypeStockUpdate = "stock_update"
)

// Event is the envelope sent to dashboards and downstream consumers.
type Event struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	Action     string    `json:"action,omitempty"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
	Message    string    `json:"message,omitempty"`
	Payload    any       `json:"payload"`
}

func New(eventType, action, key string, payload any) Event {
	return Event{
		EventID:    uuid.NewString(),
		Type:       eventType,
		Action:     action,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events on a best-effort basis. Callers publish only
// after the state change has committed.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// Fanout sends every event to each publisher in turn.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, evt Event) {
	for _, p := range f {
		p.Publish(ctx, evt)
	}
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, evt)
}
