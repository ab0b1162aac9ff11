package sim

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// Ensemble runs the same routine against several independently seeded
// simulators. Only HeadingNoise makes the seeds matter.
type Ensemble struct {
	cfg           Config
	newIntegrator func() Integrator
	numRuns       int
	seedStart     int64
}

func NewEnsemble(cfg Config, newIntegrator func() Integrator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, newIntegrator: newIntegrator, numRuns: numRuns, seedStart: seedStart}
}

// Run executes fn once per seed, each on its own goroutine and simulator.
// The simulators are returned in seed order; errors from all runs are
// combined.
func (e *Ensemble) Run(ctx context.Context, fn func(ctx context.Context, s *Simulator) error) ([]*Simulator, error) {
	sims := make([]*Simulator, e.numRuns)
	errs := make([]error, e.numRuns)

	for i := 0; i < e.numRuns; i++ {
		cfg := e.cfg
		cfg.Seed = e.seedStart + int64(i)
		s, err := New(cfg, e.newIntegrator())
		if err != nil {
			return nil, err
		}
		sims[i] = s
	}

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			s := sims[idx]
			errs[idx] = s.Run(ctx, func(ctx context.Context) error { return fn(ctx, s) })
		}(i)
	}
	wg.Wait()

	return sims, multierr.Combine(errs...)
}
