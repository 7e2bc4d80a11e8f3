package models

import "github.com/ravik-m/ivpsim/internal/ivp"

// Brownian is pure diffusion: zero drift and constant noise coefficient
// sigma. Its expectation is the initial state for all t, which makes it
// the reference case for Monte Carlo convergence checks.
type Brownian struct {
	dim int
}

func NewBrownian(dim int) *Brownian {
	if dim < 1 {
		dim = 1
	}
	return &Brownian{dim: dim}
}

func (b *Brownian) StateDim() int {
	return b.dim
}

func (b *Brownian) RequiredParams() []string {
	return []string{"sigma"}
}

func (b *Brownian) Derive(t float64, x ivp.State, p ivp.Params) (ivp.State, error) {
	return make(ivp.State, b.dim), nil
}

func (b *Brownian) Diffuse(t float64, x ivp.State, p ivp.Params) (ivp.State, error) {
	g := make(ivp.State, b.dim)
	for i := range g {
		g[i] = p["sigma"]
	}
	return g, nil
}

func (b *Brownian) DefaultState() ivp.State {
	return make(ivp.State, b.dim)
}

func (b *Brownian) DefaultParams() ivp.Params {
	return ivp.Params{"sigma": 1.0}
}
