// Package bus carries row-change notifications for the watched content
// tables. Delivery is best-effort: a missing or broken transport makes
// Subscribe fail with ErrUnavailable and Publish a no-op.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

// DefaultChannel is the single logical channel all tables share.
const DefaultChannel = "cms:changes"

var ErrUnavailable = errors.New("change bus unavailable")

// Event is one row change. It carries no payload diff.
type Event struct {
	Table     domain.Table     `json:"table"`
	EventType domain.EventType `json:"event_type"`
	At        time.Time        `json:"at"`
}

func (e Event) Validate() error {
	if !e.Table.Valid() {
		return fmt.Errorf("unknown table %q", e.Table)
	}
	if !e.EventType.Valid() {
		return fmt.Errorf("unknown event type %q", e.EventType)
	}
	return nil
}

// Encode serialises e for the wire.
func Encode(e Event) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

// Decode parses and validates a wire payload.
func Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode change event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscription delivers events until Close. Events is closed after Close or
// when the transport goes away.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

type Subscriber interface {
	// Subscribe opens one subscription covering every watched table.
	Subscribe(ctx context.Context) (Subscription, error)
}

type Bus interface {
	Publisher
	Subscriber
}
