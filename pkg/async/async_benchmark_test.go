package async_test

import (
	"context"
	"testing"

	"github.com/dmitrymomot/authkit/pkg/async"
)

// BenchmarkAsyncAwait measures the spawn-plus-await cost of a single future,
// the hot path for fire-and-forget email delivery.
func BenchmarkAsyncAwait(b *testing.B) {
	ctx := context.Background()

	for b.Loop() {
		f := async.Async(ctx, 1, func(_ context.Context, v int) (int, error) {
			return v + 1, nil
		})
		if _, err := f.Await(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAsyncFanOut measures collecting a burst of futures through WaitAll.
func BenchmarkAsyncFanOut(b *testing.B) {
	ctx := context.Background()
	const width = 100

	for b.Loop() {
		futures := make([]*async.Future[int], width)
		for i := range width {
			futures[i] = async.Async(ctx, i, func(_ context.Context, v int) (int, error) {
				return v * 2, nil
			})
		}
		if _, err := async.WaitAll(futures...); err != nil {
			b.Fatal(err)
		}
	}
}
