package sim

import (
	"context"
	"sync"
)

// RunFunc performs one complete run with the given seed.
type RunFunc func(ctx context.Context, seed int64) (*Result, error)

// Ensemble runs the same configuration under consecutive seeds concurrently.
type Ensemble struct {
	run       RunFunc
	numRuns   int
	seedStart int64
}

func NewEnsemble(run RunFunc, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{run: run, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per seed in seed order, or the first error.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = e.run(ctx, e.seedStart+int64(idx))
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Mean averages a named metric over results that report it.
func Mean(results []*Result, metric string) float64 {
	sum, n := 0.0, 0
	for _, r := range results {
		if v, ok := r.Metrics[metric]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
