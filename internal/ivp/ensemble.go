package ivp

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
)

// Ensemble runs many independent stochastic integrations and reduces
// them to mean (and variance) trajectories. Trial i uses seed
// SeedBase+i, so a fixed SeedBase reproduces the whole ensemble.
type Ensemble struct {
	Sys      System
	Diff     Diffusion
	Params   Params
	X0       State
	Cfg      Config
	Stepper  StochasticStepper
	Trials   int
	SeedBase int64
	Keep     bool // retain every trial trajectory in the result
}

type EnsembleResult struct {
	Mean         *Trajectory
	Variance     *Trajectory
	Trajectories []*Trajectory
	Trials       int
}

// Run executes the trials, one goroutine each. Results land in a slice
// indexed by trial, and the reduction walks that slice in index order
// after all trials join, so the mean does not depend on completion
// order.
func (e *Ensemble) Run(ctx context.Context) (*EnsembleResult, error) {
	if e.Trials < 1 {
		return nil, fmt.Errorf("%w: trials must be >= 1, got %d", ErrConfig, e.Trials)
	}
	if err := validate(e.Sys, e.Params, e.X0, e.Cfg); err != nil {
		return nil, err
	}

	trajs := make([]*Trajectory, e.Trials)
	errs := make([]error, e.Trials)

	var wg sync.WaitGroup
	for i := 0; i < e.Trials; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(e.SeedBase + int64(idx)))
			trajs[idx], errs[idx] = IntegrateSDE(ctx, e.Sys, e.Diff, e.Params, e.X0, e.Cfg, e.Stepper, rng)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
	}

	res := &EnsembleResult{
		Mean:     MeanTrajectory(trajs),
		Variance: VarianceTrajectory(trajs),
		Trials:   e.Trials,
	}
	if e.Keep {
		res.Trajectories = trajs
	}
	return res, nil
}

// MeanTrajectory reduces trials to their elementwise sample mean,
// walking the slice in index order so the result is independent of how
// the trials were scheduled.
func MeanTrajectory(trajs []*Trajectory) *Trajectory {
	n := trajs[0].Len()
	dim := trajs[0].Dim()
	mean := newTrajectory(n)
	inv := 1.0 / float64(len(trajs))

	for j := 0; j < n; j++ {
		acc := make(State, dim)
		for _, tr := range trajs {
			for i, v := range tr.States[j] {
				acc[i] += v
			}
		}
		for i := range acc {
			acc[i] *= inv
		}
		mean.append(trajs[0].Times[j], acc)
	}
	return mean
}

// VarianceTrajectory computes the unbiased sample variance per component
// and time index. With a single trial it returns zeros.
func VarianceTrajectory(trajs []*Trajectory) *Trajectory {
	n := trajs[0].Len()
	dim := trajs[0].Dim()
	mean := MeanTrajectory(trajs)
	variance := newTrajectory(n)

	denom := float64(len(trajs) - 1)
	for j := 0; j < n; j++ {
		acc := make(State, dim)
		if denom > 0 {
			for _, tr := range trajs {
				for i, v := range tr.States[j] {
					d := v - mean.States[j][i]
					acc[i] += d * d
				}
			}
			for i := range acc {
				acc[i] /= denom
			}
		}
		variance.append(trajs[0].Times[j], acc)
	}
	return variance
}
