package bus

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func receive(t *testing.T, sub Subscription) Event {
	t.Helper()
	select {
	case e, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestEncodeDecode(t *testing.T) {
	_, err := Encode(Event{Table: "users", EventType: domain.EventInsert})
	assert.Error(t, err)

	_, err = Decode([]byte(`{"table":"projects","event_type":"truncate"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)

	e, err := Decode([]byte(`{"table":"site_content","event_type":"update"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.TableSiteContent, e.Table)
}

func TestRedis_PublishSubscribe(t *testing.T) {
	_, client := setupRedis(t)
	b := NewRedis(client, "", time.Second)
	ctx := context.Background()

	sub, err := b.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, b.Publish(ctx, Event{Table: domain.TableProjects, EventType: domain.EventInsert, At: time.Now()}))

	e := receive(t, sub)
	assert.Equal(t, domain.TableProjects, e.Table)
	assert.Equal(t, domain.EventInsert, e.EventType)
}

func TestRedis_SkipsMalformedPayloads(t *testing.T) {
	mr, client := setupRedis(t)
	b := NewRedis(client, "cms:test", time.Second)
	ctx := context.Background()

	sub, err := b.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	mr.Publish("cms:test", "garbage")
	mr.Publish("cms:test", `{"table":"videos","event_type":"delete"}`)

	e := receive(t, sub)
	assert.Equal(t, domain.TableVideos, e.Table)
}

func TestRedis_SubscribeUnavailable(t *testing.T) {
	mr, client := setupRedis(t)
	mr.Close()

	b := NewRedis(client, "", 200*time.Millisecond)
	sub, err := b.Subscribe(context.Background())
	assert.Nil(t, sub)
	assert.ErrorIs(t, err, ErrUnavailable)

	err = b.Publish(context.Background(), Event{Table: domain.TableVideos, EventType: domain.EventUpdate})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRedis_CloseEndsEvents(t *testing.T) {
	_, client := setupRedis(t)
	b := NewRedis(client, "", time.Second)

	sub, err := b.Subscribe(context.Background())
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestLocal_FanOut(t *testing.T) {
	b := NewLocal()
	ctx := context.Background()

	s1, err := b.Subscribe(ctx)
	require.NoError(t, err)
	s2, err := b.Subscribe(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Subscribers())

	require.NoError(t, b.Publish(ctx, Event{Table: domain.TableServices, EventType: domain.EventUpdate}))
	assert.Equal(t, domain.TableServices, receive(t, s1).Table)
	assert.Equal(t, domain.TableServices, receive(t, s2).Table)

	require.NoError(t, s1.Close())
	assert.Equal(t, 1, b.Subscribers())

	b.Shutdown()
	_, ok := <-s2.Events()
	assert.False(t, ok)
	_, err = b.Subscribe(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDisabled(t *testing.T) {
	var b Bus = Disabled{}
	assert.NoError(t, b.Publish(context.Background(), Event{}))
	_, err := b.Subscribe(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
