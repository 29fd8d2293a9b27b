package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map calls fn once per item concurrently and waits for every call to return.
// The i-th result corresponds to items[i]. fn must not panic; callers that run
// untrusted work recover inside fn.
func Map[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		g.Go(func() error {
			results[i] = fn(ctx, item)
			return nil
		})
	}

	// Units never report errors, Wait is only the join barrier.
	_ = g.Wait()

	return results
}
