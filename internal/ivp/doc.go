// Package ivp provides the core primitives for fixed-step integration of
// initial value problems in ordinary and stochastic differential
// equations:
//
//   - [State]: vector representing the system state
//   - [System]: right-hand side f(t, x) of an ODE
//   - [Diffusion]: noise coefficient g(t, x) of an SDE
//   - [Stepper] / [StochasticStepper]: single-step update rules
//   - [Integrate] / [IntegrateSDE]: drivers producing a [Trajectory]
//   - [Ensemble]: Monte Carlo aggregation over independent trials
//
// # Example
//
//	sys := models.NewRelaxation()
//	traj, err := ivp.Integrate(ctx, sys, sys.DefaultParams(), ivp.State{300}, cfg, steppers.NewRK4())
//
// # Thread safety
//
// Deterministic steppers may reuse scratch buffers and are NOT safe for
// concurrent use. Stochastic steppers must be stateless: the [Ensemble]
// shares one across trials, giving each trial its own freshly seeded
// random source instead.
package ivp
