package analysis

import (
	"math"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

// StdErr converts an ensemble variance trajectory into the standard
// error of the mean, sqrt(var/n) per component and time index. This is
// the quantity expected to shrink like 1/sqrt(n) as trials grow.
func StdErr(variance *ivp.Trajectory, trials int) *ivp.Trajectory {
	out := &ivp.Trajectory{
		Times:  append([]float64(nil), variance.Times...),
		States: make([]ivp.State, len(variance.States)),
	}
	inv := 1.0 / float64(trials)
	for j, s := range variance.States {
		se := make(ivp.State, len(s))
		for i, v := range s {
			se[i] = math.Sqrt(v * inv)
		}
		out.States[j] = se
	}
	return out
}

// MaxDeviation returns the largest elementwise |a - b| over two
// index-aligned trajectories.
func MaxDeviation(a, b *ivp.Trajectory) float64 {
	max := 0.0
	for j := range a.States {
		for i := range a.States[j] {
			d := math.Abs(a.States[j][i] - b.States[j][i])
			if d > max {
				max = d
			}
		}
	}
	return max
}

// FinalSpread summarizes an ensemble endpoint: mean, standard deviation,
// and standard error of the first state component at t_end.
func FinalSpread(res *ivp.EnsembleResult) (mean, stddev, stderr float64) {
	_, m := res.Mean.Final()
	_, v := res.Variance.Final()
	mean = m[0]
	stddev = math.Sqrt(v[0])
	stderr = stddev / math.Sqrt(float64(res.Trials))
	return mean, stddev, stderr
}
