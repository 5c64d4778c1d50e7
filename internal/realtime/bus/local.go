package bus

import (
	"context"
	"log"
	"sync"
)

// Local fans events out to in-process subscribers. It backs single-instance
// development and tests.
type Local struct {
	mu     sync.Mutex
	subs   map[*localSubscription]struct{}
	closed bool
}

func NewLocal() *Local {
	return &Local{subs: make(map[*localSubscription]struct{})}
}

func (b *Local) Publish(ctx context.Context, e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for s := range b.subs {
		select {
		case s.out <- e:
		default:
			// Subscriber is behind; it already has a refresh coming.
			log.Printf("[warn] operation=bus.local dropped table=%s", e.Table)
		}
	}
	return nil
}

func (b *Local) Subscribe(ctx context.Context) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrUnavailable
	}
	s := &localSubscription{bus: b, out: make(chan Event, subscriptionBuffer)}
	b.subs[s] = struct{}{}
	return s, nil
}

// Shutdown closes every subscription and rejects new ones.
func (b *Local) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for s := range b.subs {
		delete(b.subs, s)
		close(s.out)
	}
}

// Subscribers reports the number of open subscriptions.
func (b *Local) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

type localSubscription struct {
	bus *Local
	out chan Event
}

func (s *localSubscription) Events() <-chan Event { return s.out }

func (s *localSubscription) Close() error {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if _, ok := s.bus.subs[s]; ok {
		delete(s.bus.subs, s)
		close(s.out)
	}
	return nil
}
