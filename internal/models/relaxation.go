package models

import (
	"math"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

// Relaxation is Newton cooling, dT/dt = -rate*(T - T_ambient). It has
// the closed form T(t) = Ta + (T0 - Ta)*exp(-rate*t), which makes it the
// reference equation for accuracy and convergence tests.
type Relaxation struct{}

func NewRelaxation() *Relaxation {
	return &Relaxation{}
}

func (r *Relaxation) StateDim() int {
	return 1
}

func (r *Relaxation) RequiredParams() []string {
	return []string{"T_ambient", "rate"}
}

func (r *Relaxation) Derive(t float64, x ivp.State, p ivp.Params) (ivp.State, error) {
	return ivp.State{-p["rate"] * (x[0] - p["T_ambient"])}, nil
}

// Exact evaluates the closed-form solution at time t from initial value
// T0 at t=0.
func (r *Relaxation) Exact(t, T0 float64, p ivp.Params) float64 {
	Ta := p["T_ambient"]
	return Ta + (T0-Ta)*math.Exp(-p["rate"]*t)
}

func (r *Relaxation) DefaultState() ivp.State {
	return ivp.State{300.0}
}

func (r *Relaxation) DefaultParams() ivp.Params {
	return ivp.Params{
		"T_ambient": 290.0,
		"rate":      1.0,
	}
}
