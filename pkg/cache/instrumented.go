package cache

import (
	"context"
	"time"

	"github.com/matzehuels/scrapbook/pkg/observability"
)

// Instrumented reports cache traffic to the registered cache hooks.
type Instrumented struct {
	Cache
}

// NewInstrumented wraps c. Wrapping nil yields a NullCache.
func NewInstrumented(c Cache) *Instrumented {
	if c == nil {
		c = NewNullCache()
	}
	return &Instrumented{Cache: c}
}

// Get implements Cache.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, hit, err
}

// Set implements Cache.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

// Clear forwards to the wrapped cache if it supports clearing.
func (c *Instrumented) Clear(ctx context.Context) error {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

var (
	_ Cache   = (*Instrumented)(nil)
	_ Clearer = (*Instrumented)(nil)
)
