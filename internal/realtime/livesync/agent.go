// Package livesync keeps one visitor session current. An Agent listens to the
// change bus and, after a quiet period, asks its owner to re-fetch whatever
// the visitor is looking at.
package livesync

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/metrics"
	"github.com/atelier-interiors/cms-backend/internal/realtime/bus"
)

// DefaultDelay is the debounce window.
const DefaultDelay = 500 * time.Millisecond

type State int

const (
	Disconnected State = iota
	Connected
	PendingRefresh
	Closed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case PendingRefresh:
		return "pending_refresh"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// RefreshFunc re-fetches the current view. tables lists every table that
// changed during the quiet window, sorted.
type RefreshFunc func(ctx context.Context, tables []domain.Table)

type Option func(*Agent)

func WithClock(c Clock) Option {
	return func(a *Agent) { a.clock = c }
}

// WithTables limits the agent to events on tables. Other events are dropped
// before they can start or restart the debounce timer. No tables means all.
func WithTables(tables ...domain.Table) Option {
	return func(a *Agent) {
		if len(tables) == 0 {
			a.tables = nil
			return
		}
		a.tables = make(map[domain.Table]struct{}, len(tables))
		for _, t := range tables {
			a.tables[t] = struct{}{}
		}
	}
}

func WithDelay(d time.Duration) Option {
	return func(a *Agent) {
		if d > 0 {
			a.delay = d
		}
	}
}

// Agent is the per-session state machine:
//
//	Disconnected -> Connected           subscribe succeeded
//	Connected -> PendingRefresh         event received, timer started
//	PendingRefresh -> PendingRefresh    event received, timer restarted
//	PendingRefresh -> Connected         timer fired, refresh runs
//	any -> Closed                       Close
//
// A failed subscribe leaves the agent Disconnected for good.
type Agent struct {
	subscriber bus.Subscriber
	refresh    RefreshFunc
	clock      Clock
	delay      time.Duration
	tables     map[domain.Table]struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State
	sub     bus.Subscription
	timer   Timer
	gen     uint64
	pending map[domain.Table]struct{}

	loopDone chan struct{}
	inflight sync.WaitGroup
}

func New(subscriber bus.Subscriber, refresh RefreshFunc, opts ...Option) *Agent {
	a := &Agent{
		subscriber: subscriber,
		refresh:    refresh,
		clock:      SystemClock,
		delay:      DefaultDelay,
		pending:    make(map[domain.Table]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	return a
}

// Start opens the subscription and begins consuming events. It never
// returns an error; the resulting state tells whether the session is live.
func (a *Agent) Start(ctx context.Context) State {
	a.mu.Lock()
	if a.state != Disconnected || a.sub != nil {
		s := a.state
		a.mu.Unlock()
		return s
	}
	a.mu.Unlock()

	sub, err := a.subscribe(ctx)
	if err != nil {
		if !errors.Is(err, bus.ErrUnavailable) {
			log.Printf("[warn] operation=livesync.start error=%v", err)
		}
		return a.State()
	}

	a.mu.Lock()
	if a.state == Closed {
		a.mu.Unlock()
		_ = sub.Close()
		return Closed
	}
	a.sub = sub
	a.state = Connected
	a.loopDone = make(chan struct{})
	a.mu.Unlock()

	go a.loop(sub)
	return Connected
}

func (a *Agent) subscribe(ctx context.Context) (sub bus.Subscription, err error) {
	if a.subscriber == nil {
		return nil, bus.ErrUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[warn] operation=livesync.subscribe panic=%v", r)
			sub, err = nil, bus.ErrUnavailable
		}
	}()
	return a.subscriber.Subscribe(ctx)
}

func (a *Agent) loop(sub bus.Subscription) {
	defer close(a.loopDone)
	for {
		select {
		case <-a.ctx.Done():
			return
		case e, ok := <-sub.Events():
			if !ok {
				a.mu.Lock()
				if a.state == Connected {
					a.state = Disconnected
				}
				a.mu.Unlock()
				return
			}
			a.handle(e)
		}
	}
}

// handle records a change and (re)starts the debounce timer.
func (a *Agent) handle(e bus.Event) {
	if a.tables != nil {
		if _, ok := a.tables[e.Table]; !ok {
			return
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Connected && a.state != PendingRefresh {
		return
	}
	a.pending[e.Table] = struct{}{}
	a.state = PendingRefresh
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.timer = a.clock.AfterFunc(a.delay, func() { a.fire(gen) })
}

func (a *Agent) fire(gen uint64) {
	a.mu.Lock()
	if a.state != PendingRefresh || gen != a.gen {
		a.mu.Unlock()
		return
	}
	tables := make([]domain.Table, 0, len(a.pending))
	for t := range a.pending {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i] < tables[j] })
	a.pending = make(map[domain.Table]struct{})
	a.timer = nil
	a.state = Connected
	a.inflight.Add(1)
	a.mu.Unlock()

	defer a.inflight.Done()
	metrics.Refreshes.Inc()
	a.refresh(a.ctx, tables)
}

// Close unsubscribes, cancels any pending refresh and waits for a running
// one to return. No refresh starts after Close returns.
func (a *Agent) Close() error {
	a.mu.Lock()
	if a.state == Closed {
		a.mu.Unlock()
		return nil
	}
	a.state = Closed
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	sub, loopDone := a.sub, a.loopDone
	a.sub = nil
	a.mu.Unlock()

	a.cancel()
	var err error
	if sub != nil {
		err = sub.Close()
	}
	if loopDone != nil {
		<-loopDone
	}
	a.inflight.Wait()
	return err
}

func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}
