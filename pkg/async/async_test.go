package async_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/async"
)

func TestAsync_ResolvesResult(t *testing.T) {
	t.Parallel()

	type deliveryReport struct {
		Recipient string
		Accepted  bool
	}

	future := async.Async(context.Background(), "user@example.com", func(_ context.Context, to string) (deliveryReport, error) {
		return deliveryReport{Recipient: strings.ToLower(to), Accepted: true}, nil
	})

	report, err := future.Await()
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", report.Recipient)
	assert.True(t, report.Accepted)
}

func TestAsync_PropagatesError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("smtp refused connection")

	future := async.Async(context.Background(), 1, func(context.Context, int) (string, error) {
		return "", sentinel
	})

	result, err := future.Await()
	assert.ErrorIs(t, err, sentinel)
	assert.Empty(t, result)
}

func TestAsync_CanceledContextSkipsWork(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var invoked atomic.Bool
	future := async.Async(ctx, 1, func(context.Context, int) (int, error) {
		invoked.Store(true)
		return 42, nil
	})

	_, err := future.Await()
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, invoked.Load(), "fn must not run once the context is gone")
}

func TestAsync_RunsConcurrently(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sleep := func(_ context.Context, d time.Duration) (struct{}, error) {
		time.Sleep(d)
		return struct{}{}, nil
	}

	start := time.Now()
	f1 := async.Async(ctx, 100*time.Millisecond, sleep)
	f2 := async.Async(ctx, 100*time.Millisecond, sleep)
	f3 := async.Async(ctx, 100*time.Millisecond, sleep)

	_, err := async.WaitAll(f1, f2, f3)
	require.NoError(t, err)

	// Three serial sleeps would need 300ms; overlapping ones finish in one.
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestFuture_IsComplete(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	future := async.Async(context.Background(), 0, func(context.Context, int) (int, error) {
		<-release
		return 1, nil
	})

	assert.False(t, future.IsComplete())

	close(release)
	_, err := future.Await()
	require.NoError(t, err)
	assert.True(t, future.IsComplete())
}

func TestFuture_AwaitWithTimeout(t *testing.T) {
	t.Parallel()

	t.Run("resolves before the deadline", func(t *testing.T) {
		t.Parallel()

		future := async.Async(context.Background(), 0, func(context.Context, int) (string, error) {
			return "delivered", nil
		})

		result, err := future.AwaitWithTimeout(time.Second)
		require.NoError(t, err)
		assert.Equal(t, "delivered", result)
	})

	t.Run("abandons the wait but not the work", func(t *testing.T) {
		t.Parallel()

		future := async.Async(context.Background(), 150*time.Millisecond, func(_ context.Context, d time.Duration) (string, error) {
			time.Sleep(d)
			return "late", nil
		})

		result, err := future.AwaitWithTimeout(20 * time.Millisecond)
		assert.ErrorIs(t, err, async.ErrTimeout)
		assert.Empty(t, result)

		// The computation kept going, so a plain Await still gets the value.
		result, err = future.Await()
		require.NoError(t, err)
		assert.Equal(t, "late", result)
	})
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("preserves argument order", func(t *testing.T) {
		t.Parallel()

		delayed := func(_ context.Context, v int) (int, error) {
			time.Sleep(time.Duration(v) * 10 * time.Millisecond)
			return v, nil
		}

		// The slowest future comes first, so ordered collection cannot be an
		// accident of completion time.
		f1 := async.Async(ctx, 5, delayed)
		f2 := async.Async(ctx, 3, delayed)
		f3 := async.Async(ctx, 1, delayed)

		results, err := async.WaitAll(f1, f2, f3)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 3, 1}, results)
	})

	t.Run("returns the first error", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("token store unavailable")

		ok := async.Async(ctx, 1, func(context.Context, int) (int, error) { return 1, nil })
		bad := async.Async(ctx, 2, func(context.Context, int) (int, error) { return 0, sentinel })

		_, err := async.WaitAll(ok, bad)
		assert.ErrorIs(t, err, sentinel)
	})
}

func TestWaitAny(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("fastest future wins", func(t *testing.T) {
		t.Parallel()

		labeled := func(_ context.Context, p struct {
			Label string
			Delay time.Duration
		}) (string, error) {
			time.Sleep(p.Delay)
			return p.Label, nil
		}

		slow := async.Async(ctx, struct {
			Label string
			Delay time.Duration
		}{"slow", 300 * time.Millisecond}, labeled)
		fast := async.Async(ctx, struct {
			Label string
			Delay time.Duration
		}{"fast", 10 * time.Millisecond}, labeled)

		index, result, err := async.WaitAny(slow, fast)
		require.NoError(t, err)
		assert.Equal(t, 1, index)
		assert.Equal(t, "fast", result)
	})

	t.Run("no futures", func(t *testing.T) {
		t.Parallel()

		index, _, err := async.WaitAny[string]()
		assert.ErrorIs(t, err, async.ErrNoFutures)
		assert.Equal(t, -1, index)
	})
}
