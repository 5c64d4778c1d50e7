package livesync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/realtime/bus"
)

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// manualClock fires timers only when Advance moves past their deadline.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

type refreshRecorder struct {
	mu    sync.Mutex
	calls [][]domain.Table
}

func (r *refreshRecorder) refresh(ctx context.Context, tables []domain.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, tables)
}

func (r *refreshRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func event(t domain.Table) bus.Event {
	return bus.Event{Table: t, EventType: domain.EventUpdate}
}

func startedAgent(t *testing.T, clock *manualClock, rec *refreshRecorder) *Agent {
	t.Helper()
	a := New(bus.NewLocal(), rec.refresh, WithClock(clock), WithDelay(500*time.Millisecond))
	require.Equal(t, Connected, a.Start(context.Background()))
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAgent_CoalescesBurstIntoOneRefresh(t *testing.T) {
	clock := newManualClock()
	rec := &refreshRecorder{}
	a := startedAgent(t, clock, rec)

	for i := 0; i < 10; i++ {
		a.handle(event(domain.TableProjects))
		clock.Advance(100 * time.Millisecond)
	}
	a.handle(event(domain.TableSiteContent))
	assert.Equal(t, PendingRefresh, a.State())
	assert.Equal(t, 0, rec.count())

	clock.Advance(499 * time.Millisecond)
	assert.Equal(t, 0, rec.count())

	clock.Advance(time.Millisecond)
	require.Equal(t, 1, rec.count())
	assert.Equal(t, []domain.Table{domain.TableProjects, domain.TableSiteContent}, rec.calls[0])
	assert.Equal(t, Connected, a.State())

	clock.Advance(5 * time.Second)
	assert.Equal(t, 1, rec.count())
}

func TestAgent_IgnoredTablesDoNotTouchTheTimer(t *testing.T) {
	clock := newManualClock()
	rec := &refreshRecorder{}
	a := New(bus.NewLocal(), rec.refresh, WithClock(clock), WithDelay(500*time.Millisecond),
		WithTables(domain.TableProjects, domain.TableSiteContent))
	require.Equal(t, Connected, a.Start(context.Background()))
	t.Cleanup(func() { _ = a.Close() })

	a.handle(event(domain.TableInquiries))
	assert.Equal(t, Connected, a.State())
	clock.mu.Lock()
	assert.Empty(t, clock.timers)
	clock.mu.Unlock()

	a.handle(event(domain.TableProjects))
	clock.Advance(400 * time.Millisecond)
	a.handle(event(domain.TableInquiries))
	clock.Advance(100 * time.Millisecond)

	require.Equal(t, 1, rec.count())
	assert.Equal(t, []domain.Table{domain.TableProjects}, rec.calls[0])
	assert.Equal(t, Connected, a.State())
}

func TestAgent_SeparateQuietWindows(t *testing.T) {
	clock := newManualClock()
	rec := &refreshRecorder{}
	a := startedAgent(t, clock, rec)

	a.handle(event(domain.TableVideos))
	clock.Advance(time.Second)
	a.handle(event(domain.TableServices))
	clock.Advance(time.Second)

	require.Equal(t, 2, rec.count())
	assert.Equal(t, []domain.Table{domain.TableVideos}, rec.calls[0])
	assert.Equal(t, []domain.Table{domain.TableServices}, rec.calls[1])
}

func TestAgent_NoRefreshAfterClose(t *testing.T) {
	clock := newManualClock()
	rec := &refreshRecorder{}
	a := startedAgent(t, clock, rec)

	a.handle(event(domain.TableProjects))
	require.NoError(t, a.Close())
	assert.Equal(t, Closed, a.State())

	clock.Advance(time.Minute)
	a.handle(event(domain.TableProjects))
	clock.Advance(time.Minute)

	assert.Equal(t, 0, rec.count())
	require.NoError(t, a.Close())
}

func TestAgent_StaleTimerCallbackIgnored(t *testing.T) {
	clock := newManualClock()
	rec := &refreshRecorder{}
	a := startedAgent(t, clock, rec)

	a.handle(event(domain.TableProjects))
	a.mu.Lock()
	staleGen := a.gen
	a.mu.Unlock()
	a.handle(event(domain.TableProjects))

	// A callback that lost the race with Stop must not refresh.
	a.fire(staleGen)
	assert.Equal(t, 0, rec.count())

	clock.Advance(time.Second)
	assert.Equal(t, 1, rec.count())
}

type failingSubscriber struct{ err error }

func (f failingSubscriber) Subscribe(ctx context.Context) (bus.Subscription, error) {
	return nil, f.err
}

type panickingSubscriber struct{}

func (panickingSubscriber) Subscribe(ctx context.Context) (bus.Subscription, error) {
	panic("transport exploded")
}

func TestAgent_SubscribeFailureStaysDisconnected(t *testing.T) {
	cases := map[string]bus.Subscriber{
		"unavailable": bus.Disabled{},
		"other error": failingSubscriber{err: errors.New("dial tcp: refused")},
		"panic":       panickingSubscriber{},
		"nil":         nil,
	}
	for name, sub := range cases {
		t.Run(name, func(t *testing.T) {
			clock := newManualClock()
			rec := &refreshRecorder{}
			a := New(sub, rec.refresh, WithClock(clock))

			assert.Equal(t, Disconnected, a.Start(context.Background()))
			a.handle(event(domain.TableProjects))
			clock.Advance(time.Minute)

			assert.Equal(t, 0, rec.count())
			assert.Equal(t, Disconnected, a.State())
			assert.NoError(t, a.Close())
		})
	}
}

func TestAgent_TransportLossDisconnects(t *testing.T) {
	b := bus.NewLocal()
	rec := &refreshRecorder{}
	a := New(b, rec.refresh, WithClock(newManualClock()))
	require.Equal(t, Connected, a.Start(context.Background()))

	b.Shutdown()
	assert.Eventually(t, func() bool { return a.State() == Disconnected }, time.Second, 5*time.Millisecond)
	assert.NoError(t, a.Close())
}

func TestAgent_EndToEndWithLocalBus(t *testing.T) {
	b := bus.NewLocal()
	refreshed := make(chan []domain.Table, 4)
	a := New(b, func(ctx context.Context, tables []domain.Table) {
		refreshed <- tables
	}, WithDelay(30*time.Millisecond))
	require.Equal(t, Connected, a.Start(context.Background()))
	defer a.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, b.Publish(ctx, event(domain.TableProjects)))
	}

	select {
	case tables := <-refreshed:
		assert.Equal(t, []domain.Table{domain.TableProjects}, tables)
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh")
	}

	select {
	case <-refreshed:
		t.Fatal("burst produced a second refresh")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestAgent_CloseWaitsForInflightRefresh(t *testing.T) {
	clock := newManualClock()
	started := make(chan struct{})
	release := make(chan struct{})
	var finished bool
	var mu sync.Mutex

	a := New(bus.NewLocal(), func(ctx context.Context, tables []domain.Table) {
		close(started)
		<-release
		mu.Lock()
		finished = true
		mu.Unlock()
	}, WithClock(clock))
	require.Equal(t, Connected, a.Start(context.Background()))

	a.handle(event(domain.TableProjects))
	go clock.Advance(time.Second)
	<-started

	closed := make(chan struct{})
	go func() {
		_ = a.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while refresh was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-closed
	mu.Lock()
	assert.True(t, finished)
	mu.Unlock()
}
