// Package engine manages the lifetime of the process-wide refinement
// engine. Construction is expensive, so one instance is built and then
// shared read-only by every concurrent job.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/cgatting/RefScore/internal/refiner"
)

// ErrUnavailable marks an engine construction failure. Callers inspect it
// with errors.Is; the construction cause is wrapped alongside.
var ErrUnavailable = errors.New("refinement engine unavailable")

// ConstructFunc builds a new engine instance. refiner.NewEngine in
// production; tests inject their own.
type ConstructFunc func(ctx context.Context, settings refiner.Settings) (*refiner.Engine, error)

// Cache holds at most one engine. States: uninitialized (current == nil)
// and ready. A failed construction leaves the cache uninitialized so the
// next request retries; failure is never sticky.
type Cache struct {
	construct ConstructFunc
	logger    *zap.Logger

	mu      sync.RWMutex
	current *refiner.Engine

	group singleflight.Group
}

// NewCache creates an empty cache using construct for lazy builds.
func NewCache(construct ConstructFunc, logger *zap.Logger) *Cache {
	return &Cache{construct: construct, logger: logger}
}

// Preload eagerly constructs the engine at startup. Failure is logged and
// swallowed: the cache stays uninitialized and requests fall back to lazy
// construction.
func (c *Cache) Preload(ctx context.Context, settings refiner.Settings) {
	if _, err := c.GetOrCreate(ctx, settings); err != nil {
		c.logger.Error("engine preload failed, deferring to lazy construction", zap.Error(err))
		return
	}
	c.logger.Info("engine preloaded")
}

// GetOrCreate returns the shared engine, constructing it first when the
// cache is uninitialized. Concurrent callers racing on an empty cache are
// collapsed into a single construction; exactly one instance is retained.
func (c *Cache) GetOrCreate(ctx context.Context, settings refiner.Settings) (*refiner.Engine, error) {
	c.mu.RLock()
	eng := c.current
	c.mu.RUnlock()
	if eng != nil {
		return eng, nil
	}

	v, err, _ := c.group.Do("engine", func() (interface{}, error) {
		// A loser of an earlier race may land here after the winner
		// stored its engine.
		c.mu.RLock()
		existing := c.current
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		built, err := c.construct(ctx, settings)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.current = built
		c.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return v.(*refiner.Engine), nil
}

// Ready reports whether an engine is currently held.
func (c *Cache) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current != nil
}
