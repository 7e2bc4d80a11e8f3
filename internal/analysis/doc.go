// Package analysis provides post-hoc numerics over trajectories.
//
//   - [Convergence]: step-halving study of a stepper's global error
//   - [ObservedOrder]: mean observed order from a convergence study
//   - [StdErr]: standard error of an ensemble mean trajectory
//   - [FinalSpread]: endpoint summary of a Monte Carlo ensemble
//
// # Order verification
//
// The observed order should approach the nominal order of the stepper:
//
//	rows, _ := analysis.Convergence(ctx, sys, p, x0, cfg, steppers.NewRK4(), exact, 4)
//	order := analysis.ObservedOrder(rows) // ~4 for RK4
package analysis
