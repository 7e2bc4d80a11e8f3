package analysis

import (
	"context"
	"math"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

// ConvergenceRow is one line of a step-halving study: the grid used, the
// global error at t_end, and the observed order relative to the previous
// (coarser) grid. Order is NaN on the first row.
type ConvergenceRow struct {
	Steps int
	Dt    float64
	Error float64
	Order float64
}

// Convergence integrates the same problem on successively halved grids
// and reports the global error against the exact solution at t_end. For
// a method of order p the error ratio between rows approaches 2^p, so
// Order approaches p.
func Convergence(ctx context.Context, sys ivp.System, p ivp.Params, x0 ivp.State, cfg ivp.Config, st ivp.Stepper, exact func(t float64) ivp.State, halvings int) ([]ConvergenceRow, error) {
	rows := make([]ConvergenceRow, 0, halvings+1)

	steps := cfg.Steps
	for i := 0; i <= halvings; i++ {
		c := cfg
		c.Steps = steps
		traj, err := ivp.Integrate(ctx, sys, p, x0, c, st)
		if err != nil {
			return rows, err
		}

		tEnd, final := traj.Final()
		e := final.Sub(exact(tEnd)).Norm()

		row := ConvergenceRow{Steps: steps, Dt: c.Dt(), Error: e, Order: math.NaN()}
		if i > 0 {
			prev := rows[i-1].Error
			if prev > 0 && e > 0 {
				row.Order = math.Log2(prev / e)
			}
		}
		rows = append(rows, row)

		steps *= 2
	}

	return rows, nil
}

// ObservedOrder averages the per-row orders, skipping the first row and
// any degenerate ratios.
func ObservedOrder(rows []ConvergenceRow) float64 {
	sum, n := 0.0, 0
	for _, r := range rows {
		if !math.IsNaN(r.Order) {
			sum += r.Order
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
