// Package pagecache stores assembled public page bundles in Redis under
// "page:<path>" and drops them when the content behind them changes.
package pagecache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "page:"
	// genKey sits outside keyPrefix so a "*" invalidation never resets it.
	genKey = "pagecache:generation"
)

// Cache is the read-through store for page bundles. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, path string) ([]byte, bool, error)
	// Generation returns a token that changes on every Invalidate. Read it
	// before building a page and hand it to Set.
	Generation(ctx context.Context) (int64, error)
	// Set stores body only when no Invalidate ran since gen was read, so a
	// bundle built from rows that changed meanwhile is never cached.
	Set(ctx context.Context, path string, body []byte, gen int64) (bool, error)
	// Invalidate drops every cached page matching one of patterns. A pattern
	// is an exact path, a prefix ending in "/*", or "*" for every page.
	Invalidate(ctx context.Context, patterns ...string) (int, error)
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(path string) string { return keyPrefix + path }

func (c *Redis) Get(ctx context.Context, path string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get page %s: %w", path, err)
	}
	return data, true, nil
}

// setIfGeneration writes KEYS[2] only while KEYS[1] still holds ARGV[1].
var setIfGeneration = redis.NewScript(`
if (redis.call('GET', KEYS[1]) or '0') ~= ARGV[1] then
  return 0
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

func (c *Redis) Generation(ctx context.Context) (int64, error) {
	raw, err := c.client.Get(ctx, genKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read page generation: %w", err)
	}
	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse page generation %q: %w", raw, err)
	}
	return gen, nil
}

func (c *Redis) Set(ctx context.Context, path string, body []byte, gen int64) (bool, error) {
	n, err := setIfGeneration.Run(ctx, c.client,
		[]string{genKey, key(path)},
		strconv.FormatInt(gen, 10), body, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("set page %s: %w", path, err)
	}
	return n == 1, nil
}

// Invalidate bumps the generation before deleting, so a fill that raced
// with it either lands before the delete or is refused by Set.
func (c *Redis) Invalidate(ctx context.Context, patterns ...string) (int, error) {
	if len(patterns) == 0 {
		return 0, nil
	}
	if err := c.client.Incr(ctx, genKey).Err(); err != nil {
		return 0, fmt.Errorf("bump page generation: %w", err)
	}

	var exact []string
	var globs []string
	for _, p := range patterns {
		switch {
		case p == "*":
			globs = append(globs, keyPrefix+"*")
		case strings.HasSuffix(p, "/*"):
			globs = append(globs, key(p))
		default:
			exact = append(exact, key(p))
		}
	}

	removed := 0
	if len(exact) > 0 {
		n, err := c.client.Del(ctx, exact...).Result()
		if err != nil {
			return removed, fmt.Errorf("invalidate pages: %w", err)
		}
		removed += int(n)
	}
	for _, g := range globs {
		n, err := c.deleteMatching(ctx, g)
		removed += n
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func (c *Redis) deleteMatching(ctx context.Context, match string) (int, error) {
	removed := 0
	iter := c.client.Scan(ctx, 0, match, 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			n, err := c.client.Del(ctx, batch...).Result()
			if err != nil {
				return removed, fmt.Errorf("invalidate %s: %w", match, err)
			}
			removed += int(n)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan %s: %w", match, err)
	}
	if len(batch) > 0 {
		n, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			return removed, fmt.Errorf("invalidate %s: %w", match, err)
		}
		removed += int(n)
	}
	return removed, nil
}

// Nop is used when Redis is not configured; every lookup misses.
type Nop struct{}

func (Nop) Get(ctx context.Context, path string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Generation(ctx context.Context) (int64, error) { return 0, nil }
func (Nop) Set(ctx context.Context, path string, body []byte, gen int64) (bool, error) {
	return false, nil
}
func (Nop) Invalidate(ctx context.Context, patterns ...string) (int, error) {
	return 0, nil
}
