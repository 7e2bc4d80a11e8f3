package ivp

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// Integrate advances x0 from cfg.T0 to cfg.TEnd in cfg.Steps fixed
// increments using the given stepper and returns the full trajectory.
// Deterministic: identical inputs yield identical trajectories.
//
// On a singular or non-finite step the partial trajectory up to the last
// finite state is returned together with a *StepError; callers decide
// whether the truncated path is still useful.
func Integrate(ctx context.Context, sys System, p Params, x0 State, cfg Config, st Stepper) (*Trajectory, error) {
	if err := validate(sys, p, x0, cfg); err != nil {
		return nil, err
	}

	dt := cfg.Dt()
	traj := newTrajectory(cfg.Steps + 1)
	traj.append(cfg.T0, x0.Clone())

	x := x0.Clone()
	for j := 0; j < cfg.Steps; j++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}

		// t_j from the grid, not accumulated, to keep the final point
		// landing on TEnd exactly up to one rounding.
		t := cfg.T0 + float64(j)*dt

		next, err := st.Step(sys, x, p, t, dt)
		if err != nil {
			return traj, &StepError{Step: j, Time: t, State: x.Clone(), Err: err}
		}
		if !next.IsValid() {
			return traj, &StepError{Step: j, Time: t, State: x.Clone(), Err: ErrNonFinite}
		}

		x = next
		traj.append(cfg.T0+float64(j+1)*dt, x.Clone())
	}

	return traj, nil
}

// IntegrateSDE is the stochastic counterpart of Integrate. One fresh
// N(0, sqrt(dt)) increment is drawn per component per step from rng and
// handed to the stepper; increments are never reused. A nil rng is
// seeded from cfg.Seed, so equal seeds reproduce equal trajectories.
func IntegrateSDE(ctx context.Context, sys System, g Diffusion, p Params, x0 State, cfg Config, st StochasticStepper, rng *rand.Rand) (*Trajectory, error) {
	if err := validate(sys, p, x0, cfg); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	dt := cfg.Dt()
	sqrtDt := math.Sqrt(dt)
	traj := newTrajectory(cfg.Steps + 1)
	traj.append(cfg.T0, x0.Clone())

	x := x0.Clone()
	dw := make(State, len(x0))
	for j := 0; j < cfg.Steps; j++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}

		t := cfg.T0 + float64(j)*dt
		for i := range dw {
			dw[i] = rng.NormFloat64() * sqrtDt
		}

		next, err := st.StepSDE(sys, g, x, p, t, dt, dw)
		if err != nil {
			return traj, &StepError{Step: j, Time: t, State: x.Clone(), Err: err}
		}
		if !next.IsValid() {
			return traj, &StepError{Step: j, Time: t, State: x.Clone(), Err: ErrNonFinite}
		}

		x = next
		traj.append(cfg.T0+float64(j+1)*dt, x.Clone())
	}

	return traj, nil
}

func validate(sys System, p Params, x0 State, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := p.Require(sys.RequiredParams()...); err != nil {
		return err
	}
	if len(x0) != sys.StateDim() {
		return fmt.Errorf("%w: initial state has dim %d, system wants %d", ErrConfig, len(x0), sys.StateDim())
	}
	return nil
}
