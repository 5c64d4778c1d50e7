package bus

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const subscriptionBuffer = 32

// Redis is a Bus over Redis pub/sub.
type Redis struct {
	client         *redis.Client
	channel        string
	connectTimeout time.Duration
}

func NewRedis(client *redis.Client, channel string, connectTimeout time.Duration) *Redis {
	if channel == "" {
		channel = DefaultChannel
	}
	if connectTimeout <= 0 {
		connectTimeout = 3 * time.Second
	}
	return &Redis{client: client, channel: channel, connectTimeout: connectTimeout}
}

func (b *Redis) Publish(ctx context.Context, e Event) error {
	data, err := Encode(e)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("%w: publish: %v", ErrUnavailable, err)
	}
	return nil
}

// Subscribe waits at most connectTimeout for the subscription to be
// confirmed before giving up.
func (b *Redis) Subscribe(ctx context.Context) (Subscription, error) {
	ps := b.client.Subscribe(ctx, b.channel)

	confirmCtx, cancel := context.WithTimeout(ctx, b.connectTimeout)
	defer cancel()
	if _, err := ps.Receive(confirmCtx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("%w: subscribe: %v", ErrUnavailable, err)
	}

	s := &redisSubscription{
		ps:   ps,
		out:  make(chan Event, subscriptionBuffer),
		done: make(chan struct{}),
	}
	go s.run()
	return s, nil
}

type redisSubscription struct {
	ps   *redis.PubSub
	out  chan Event
	done chan struct{}
	once sync.Once
}

func (s *redisSubscription) run() {
	defer close(s.out)
	msgs := s.ps.Channel()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			e, err := Decode([]byte(msg.Payload))
			if err != nil {
				log.Printf("[warn] operation=bus.receive channel=%s error=%v", msg.Channel, err)
				continue
			}
			select {
			case s.out <- e:
			case <-s.done:
				return
			}
		}
	}
}

func (s *redisSubscription) Events() <-chan Event { return s.out }

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}
