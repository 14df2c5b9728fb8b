package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cgatting/RefScore/internal/refiner"
)

func TestCache_GetOrCreate_ConstructsOnce_When_CalledConcurrently(t *testing.T) {
	var constructions atomic.Int32
	construct := func(ctx context.Context, settings refiner.Settings) (*refiner.Engine, error) {
		constructions.Add(1)
		// Make the construction window wide enough for every caller to
		// observe the uninitialized cache.
		time.Sleep(50 * time.Millisecond)
		return &refiner.Engine{}, nil
	}

	cache := NewCache(construct, zap.NewNop())
	ctx := context.Background()

	const callers = 20
	results := make([]*refiner.Engine, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.GetOrCreate(ctx, refiner.DefaultSettings())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}

	assert.Equal(t, int32(1), constructions.Load(), "concurrent callers must collapse into one construction")
	for i := 1; i < callers; i++ {
		assert.Same(t, results[0], results[i], "every caller must see the same retained engine")
	}
	assert.True(t, cache.Ready())
}

func TestCache_GetOrCreate_ReusesEngine_OnSubsequentCalls(t *testing.T) {
	var constructions atomic.Int32
	construct := func(ctx context.Context, settings refiner.Settings) (*refiner.Engine, error) {
		constructions.Add(1)
		return &refiner.Engine{}, nil
	}

	cache := NewCache(construct, zap.NewNop())
	ctx := context.Background()

	first, err := cache.GetOrCreate(ctx, refiner.DefaultSettings())
	require.NoError(t, err)
	second, err := cache.GetOrCreate(ctx, refiner.DefaultSettings())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), constructions.Load())
}

func TestCache_ConstructionFailure_IsNotSticky(t *testing.T) {
	cause := errors.New("model files missing")
	var fail atomic.Bool
	fail.Store(true)
	construct := func(ctx context.Context, settings refiner.Settings) (*refiner.Engine, error) {
		if fail.Load() {
			return nil, cause
		}
		return &refiner.Engine{}, nil
	}

	cache := NewCache(construct, zap.NewNop())
	ctx := context.Background()

	_, err := cache.GetOrCreate(ctx, refiner.DefaultSettings())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause, "the construction cause must ride along")
	assert.False(t, cache.Ready(), "a failed construction leaves the cache uninitialized")

	// Underlying cause fixed; the next call retries and succeeds.
	fail.Store(false)
	eng, err := cache.GetOrCreate(ctx, refiner.DefaultSettings())
	require.NoError(t, err)
	assert.NotNil(t, eng)
	assert.True(t, cache.Ready())
}

func TestCache_Preload_SwallowsFailure(t *testing.T) {
	construct := func(ctx context.Context, settings refiner.Settings) (*refiner.Engine, error) {
		return nil, errors.New("no models on disk")
	}

	cache := NewCache(construct, zap.NewNop())

	assert.NotPanics(t, func() {
		cache.Preload(context.Background(), refiner.DefaultSettings())
	})
	assert.False(t, cache.Ready())
}

func TestCache_Preload_MakesEngineReady(t *testing.T) {
	construct := func(ctx context.Context, settings refiner.Settings) (*refiner.Engine, error) {
		return &refiner.Engine{}, nil
	}

	cache := NewCache(construct, zap.NewNop())
	cache.Preload(context.Background(), refiner.DefaultSettings())

	assert.True(t, cache.Ready())
}
