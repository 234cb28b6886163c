package utils

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelForEach(t *testing.T) {
	t.Run("processes every item", func(t *testing.T) {
		items := []int{1, 2, 3, 4, 5}
		var sum int64

		errs := ParallelForEach(context.Background(), items, 3, func(_ context.Context, n int) error {
			atomic.AddInt64(&sum, int64(n))
			return nil
		})

		require.Len(t, errs, len(items))
		assert.NoError(t, FirstError(errs))
		assert.Equal(t, int64(15), sum)
	})

	t.Run("errors are index aligned", func(t *testing.T) {
		items := []string{"posts", "bad", "pages"}
		errs := ParallelForEach(context.Background(), items, 2, func(_ context.Context, s string) error {
			if s == "bad" {
				return errors.New("boom")
			}
			return nil
		})

		require.Len(t, errs, 3)
		assert.NoError(t, errs[0])
		assert.EqualError(t, errs[1], "boom")
		assert.NoError(t, errs[2])
	})

	t.Run("empty input", func(t *testing.T) {
		errs := ParallelForEach(context.Background(), []int{}, 4, func(context.Context, int) error {
			t.Fatal("should not be called")
			return nil
		})
		assert.Empty(t, errs)
	})

	t.Run("non-positive workers runs sequentially", func(t *testing.T) {
		var mu sync.Mutex
		var order []int
		errs := ParallelForEach(context.Background(), []int{1, 2, 3}, 0, func(_ context.Context, n int) error {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			return nil
		})
		assert.NoError(t, FirstError(errs))
		assert.Equal(t, []int{1, 2, 3}, order)
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		var current, peak int64
		items := make([]int, 20)
		ParallelForEach(context.Background(), items, 4, func(context.Context, int) error {
			n := atomic.AddInt64(&current, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&current, -1)
			return nil
		})
		assert.LessOrEqual(t, peak, int64(4))
	})

	t.Run("cancelled context marks unstarted items", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		errs := ParallelForEach(ctx, []int{1, 2, 3}, 1, func(context.Context, int) error {
			return nil
		})

		require.Len(t, errs, 3)
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, context.Canceled)
			}
		}
	})
}

func TestFirstError(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	tests := []struct {
		name string
		errs []error
		want error
	}{
		{name: "nil slice", errs: nil, want: nil},
		{name: "all nil", errs: []error{nil, nil}, want: nil},
		{name: "first wins", errs: []error{nil, first, second}, want: first},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstError(tt.errs))
		})
	}
}

func TestCollectErrors(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")

	assert.Nil(t, CollectErrors([]error{nil, nil}))
	assert.Equal(t, []error{a, b}, CollectErrors([]error{a, nil, b}))
}

func TestJoinErrors(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")

	assert.NoError(t, JoinErrors([]error{nil}))

	err := JoinErrors([]error{a, nil, b})
	require.Error(t, err)
	assert.ErrorIs(t, err, a)
	assert.ErrorIs(t, err, b)
}
