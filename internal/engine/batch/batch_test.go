package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_Map(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}
	double := func(_ context.Context, v int) (int, error) { return v * 2, nil }

	t.Run("preserves order", func(t *testing.T) {
		p, err := NewProcessor[int, int](4, 3)
		require.NoError(t, err)

		out, err := p.Map(context.Background(), items, double)
		require.NoError(t, err)
		require.Len(t, out, 25)
		for i, o := range out {
			assert.Equal(t, i, o.Index)
			assert.Equal(t, i*2, o.Value)
			assert.NoError(t, o.Err)
		}
	})

	t.Run("item errors do not stop the run", func(t *testing.T) {
		p, err := NewProcessor[int, int](10, 2)
		require.NoError(t, err)
		var calls int32

		out, err := p.Map(context.Background(), items, func(_ context.Context, v int) (int, error) {
			atomic.AddInt32(&calls, 1)
			if v%5 == 0 {
				return 0, errors.New("bad item")
			}
			return v, nil
		})
		require.NoError(t, err)
		assert.Equal(t, int32(25), calls)

		failed := 0
		for _, o := range out {
			if o.Err != nil {
				failed++
			}
		}
		assert.Equal(t, 5, failed)
	})

	t.Run("panicking item becomes an error", func(t *testing.T) {
		p, err := NewProcessor[int, int](5, 2)
		require.NoError(t, err)

		var out []Outcome[int]
		require.NotPanics(t, func() {
			out, err = p.Map(context.Background(), items, func(_ context.Context, v int) (int, error) {
				if v == 7 {
					panic("overflow")
				}
				return v, nil
			})
		})
		require.NoError(t, err)
		require.ErrorIs(t, out[7].Err, ErrItemPanicked)
		assert.Contains(t, out[7].Err.Error(), "overflow")
		assert.NoError(t, out[8].Err)
		assert.Equal(t, 8, out[8].Value)
	})

	t.Run("progress", func(t *testing.T) {
		var mu sync.Mutex
		var last ProgressSnapshot
		calls := 0
		p := NewProcessorWithDefaults[int, int]().WithProgressCallback(func(s ProgressSnapshot) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if s.ProcessedItems > last.ProcessedItems {
				last = s
			}
		})

		_, err := p.Map(context.Background(), items, double)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.True(t, last.IsComplete())
		assert.InDelta(t, 100.0, last.PercentComplete, 1e-9)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p, err := NewProcessor[int, int](1, 1)
		require.NoError(t, err)

		_, err = p.Map(ctx, items, double)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("empty items", func(t *testing.T) {
		_, err := NewProcessorWithDefaults[int, int]().Map(context.Background(), nil, double)
		assert.ErrorIs(t, err, ErrEmptyItems)
	})

	t.Run("nil func", func(t *testing.T) {
		_, err := NewProcessorWithDefaults[int, int]().Map(context.Background(), items, nil)
		assert.ErrorIs(t, err, ErrNilFunc)
	})
}

func TestNewProcessor(t *testing.T) {
	_, err := NewProcessor[int, int](0, 1)
	require.ErrorIs(t, err, ErrInvalidBatchSize)
	_, err = NewProcessor[int, int](2000, 1)
	require.ErrorIs(t, err, ErrInvalidBatchSize)

	p, err := NewProcessor[int, int](10, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, p.BatchSize())
}

func TestCalculateBatches(t *testing.T) {
	batches := CalculateBatches(25, 10)
	require.Len(t, batches, 3)
	assert.Equal(t, [2]int{0, 10}, batches[0])
	assert.Equal(t, [2]int{10, 20}, batches[1])
	assert.Equal(t, [2]int{20, 25}, batches[2])

	assert.Nil(t, CalculateBatches(0, 10))
	assert.Len(t, CalculateBatches(10, 10), 1)
}

func TestProgress(t *testing.T) {
	p := NewProgress(100, 10)
	s := p.Snapshot()
	assert.InDelta(t, 0.0, s.PercentComplete, 1e-9)
	assert.False(t, s.IsComplete())

	p.AddBatch(10, 2)
	s = p.Snapshot()
	assert.InDelta(t, 10.0, s.PercentComplete, 1e-9)
	assert.Equal(t, 1, s.ProcessedBatches)
	assert.Equal(t, 2, s.FailedItems)

	p.AddBatch(90, 0)
	assert.True(t, p.Snapshot().IsComplete())
}
