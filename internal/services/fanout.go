package services

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fanOut calls fn once per item concurrently and returns the results in item
// order. Every call runs to completion; a failing call does not cancel its
// siblings, so fn reports failure inside R.
func fanOut[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))
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
	_ = g.Wait()
	return results
}
