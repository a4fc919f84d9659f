package redis

import (
	"context"
	"fmt"
	"time"
)

// go-redis reports TTL -1 (key without expiry) as a raw duration, not seconds.
const ttlNoExpiry = time.Duration(-1)

// Window is the state of one fixed-window counter after a hit.
type Window struct {
	Allowed bool
	Count   int64
	Limit   int64
	// ResetIn is how long until the counter expires.
	ResetIn time.Duration
}

func (w Window) Remaining() int64 {
	if left := w.Limit - w.Count; left > 0 {
		return left
	}
	return 0
}

// FixedWindowAllow counts one hit against scope. The window opens on the first
// hit. A counter that lost its expiry (crash between INCR and EXPIRE) gets it
// back on the next hit instead of blocking the scope forever.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (Window, error) {
	if err := c.ready(); err != nil {
		return Window{}, err
	}
	key := c.RateLimitKey(scope)
	count, err := c.store.Incr(ctx, key).Result()
	if err != nil {
		return Window{}, fmt.Errorf("incr %s: %w", key, err)
	}
	w := Window{Allowed: count <= limit, Count: count, Limit: limit, ResetIn: window}
	if window <= 0 {
		return w, nil
	}

	if count > 1 {
		ttl, err := c.store.TTL(ctx, key).Result()
		if err != nil {
			return Window{Count: count, Limit: limit}, fmt.Errorf("ttl %s: %w", key, err)
		}
		if ttl != ttlNoExpiry {
			if ttl > 0 {
				w.ResetIn = ttl
			}
			return w, nil
		}
	}
	if err := c.store.Expire(ctx, key, window).Err(); err != nil {
		return Window{Count: count, Limit: limit}, fmt.Errorf("expire %s: %w", key, err)
	}
	return w, nil
}
