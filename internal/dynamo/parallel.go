package dynamo

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Factory builds a fresh System for a seed. Every ensemble member gets its
// own System so no state is shared between goroutines.
type Factory func(seed int64) (System, []Metric, error)

type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// Run executes every member concurrently and returns results in seed order.
// The first failing member cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			seed := e.seedStart + int64(idx)
			sys, metrics, err := e.factory(seed)
			if err != nil {
				return err
			}

			cfgCopy := cfg
			cfgCopy.Seed = seed

			s := New(sys)
			for _, m := range metrics {
				s.AddMetric(m)
			}

			res, err := s.Run(ctx, cfgCopy)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
