package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessorProcess(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("Sequential", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)

		var processed, batches int32
		callback := func(_ context.Context, batch []int, _ int) error {
			atomic.AddInt32(&batches, 1)
			atomic.AddInt32(&processed, int32(len(batch)))
			return nil
		}

		require.NoError(t, p.Process(context.Background(), items, callback))
		assert.Equal(t, int32(25), processed)
		assert.Equal(t, int32(3), batches)
	})

	t.Run("SequentialOrder", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)

		var indexes []int
		var firsts []int
		callback := func(_ context.Context, batch []int, index int) error {
			indexes = append(indexes, index)
			firsts = append(firsts, batch[0])
			return nil
		}

		require.NoError(t, p.Process(context.Background(), items, callback))
		assert.Equal(t, []int{0, 1, 2}, indexes)
		assert.Equal(t, []int{0, 10, 20}, firsts)
	})

	t.Run("ErrorStopsProcessing", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)

		var calls int32
		sentinel := errors.New("boom")
		callback := func(_ context.Context, _ []int, index int) error {
			atomic.AddInt32(&calls, 1)
			if index == 1 {
				return sentinel
			}
			return nil
		}

		err = p.Process(context.Background(), items, callback)
		require.ErrorIs(t, err, sentinel)
		assert.Contains(t, err.Error(), "batch 1 failed")
		assert.Equal(t, int32(2), calls)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err = p.Process(ctx, items, func(context.Context, []int, int) error { return nil })
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		p := NewProcessorWithDefaults[int]()
		require.ErrorIs(t, p.Process(context.Background(), nil, nil), ErrEmptyItems)
	})

	t.Run("NilCallback", func(t *testing.T) {
		p := NewProcessorWithDefaults[int]()
		require.ErrorIs(t, p.Process(context.Background(), items, nil), ErrNilCallback)
	})

	t.Run("InvalidBatchSize", func(t *testing.T) {
		_, err := NewProcessor[int](0)
		require.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int](MaxBatchSize + 1)
		require.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}

func TestProcessorProcessConcurrent(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("AllBatchesRun", func(t *testing.T) {
		p, err := NewProcessor[int](5)
		require.NoError(t, err)

		var processed int32
		callback := func(_ context.Context, batch []int, _ int) error {
			atomic.AddInt32(&processed, int32(len(batch)))
			return nil
		}

		require.NoError(t, p.ProcessConcurrent(context.Background(), items, callback, 2))
		assert.Equal(t, int32(25), processed)
	})

	t.Run("ConcurrencyLimit", func(t *testing.T) {
		p, err := NewProcessor[int](1)
		require.NoError(t, err)

		var inFlight, peak int32
		callback := func(_ context.Context, _ []int, _ int) error {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return nil
		}

		require.NoError(t, p.ProcessConcurrent(context.Background(), items, callback, 3))
		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	})

	t.Run("FirstErrorCancelsRest", func(t *testing.T) {
		p, err := NewProcessor[int](1)
		require.NoError(t, err)

		sentinel := errors.New("boom")
		var calls int32
		callback := func(_ context.Context, _ []int, index int) error {
			atomic.AddInt32(&calls, 1)
			if index == 0 {
				return sentinel
			}
			return nil
		}

		// With a limit of 1 the failing batch cancels the group before any
		// later batch acquires a slot, so only one callback ever runs.
		err = p.ProcessConcurrent(context.Background(), items, callback, 1)
		require.ErrorIs(t, err, sentinel)
		assert.Contains(t, err.Error(), "batch 0 failed")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("ProgressCallback", func(t *testing.T) {
		p, err := NewProcessor[int](5)
		require.NoError(t, err)

		var notifications int32
		p.WithProgressCallback(func(progress *Progress) {
			atomic.AddInt32(&notifications, 1)
			assert.LessOrEqual(t, progress.PercentComplete(), 100.0)
		})

		callback := func(context.Context, []int, int) error { return nil }
		require.NoError(t, p.ProcessConcurrent(context.Background(), items, callback, 4))
		assert.Equal(t, int32(5), notifications)
	})
}

func TestProgress(t *testing.T) {
	p := NewProgress(100, 10)

	assert.Equal(t, 0.0, p.PercentComplete())
	assert.False(t, p.IsComplete())

	p.AddProcessed(10)
	assert.Equal(t, 10.0, p.PercentComplete())

	p.AddProcessed(90)
	assert.Equal(t, 100.0, p.PercentComplete())
	assert.True(t, p.IsComplete())
	assert.Greater(t, p.Elapsed(), time.Duration(0))

	snap := p.Snapshot()
	assert.Equal(t, 100, snap.TotalItems)
	assert.Equal(t, 100, snap.ProcessedItems)
	assert.Equal(t, 10, snap.TotalBatches)
	assert.Equal(t, 2, snap.ProcessedBatches)
	assert.Equal(t, 100.0, snap.PercentComplete)
	assert.Greater(t, snap.ItemsPerSecond, 0.0)
}

func TestProgressEmpty(t *testing.T) {
	p := NewProgress(0, 0)
	assert.Equal(t, 0.0, p.PercentComplete())
	assert.True(t, p.IsComplete())
}

func TestProcessorBatchSize(t *testing.T) {
	p, err := NewProcessor[string](25)
	require.NoError(t, err)
	assert.Equal(t, 25, p.BatchSize())

	assert.Equal(t, DefaultBatchSize, NewProcessorWithDefaults[string]().BatchSize())
}
