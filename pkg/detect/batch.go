package detect

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchResult pairs one query with its outcome. A malformed query surfaces as
// Err on its own entry and never aborts the rest of the batch.
type BatchResult struct {
	Query  Query
	Result *Result
	Err    error
}

// DetectAll evaluates each query independently and returns results
// positionally aligned with the input. Queries share no state, so they are
// fanned out across a bounded worker pool; the database must only be read for
// the duration of the batch.
func (d *Detector) DetectAll(ctx context.Context, queries []Query) []BatchResult {
	results := make([]BatchResult, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			res, err := d.Detect(ctx, q)
			results[i] = BatchResult{Query: q, Result: res, Err: err}
			return nil
		})
	}

	// Workers never return errors; per-query failures live in their slot.
	_ = g.Wait()
	return results
}
