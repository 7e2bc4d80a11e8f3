package steppers

import "github.com/ravik-m/ivpsim/internal/ivp"

// Euler is the forward Euler rule: x' = x + dt*f(t, x).
// First order accurate globally.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys ivp.System, x ivp.State, p ivp.Params, t, dt float64) (ivp.State, error) {
	dx, err := sys.Derive(t, x, p)
	if err != nil {
		return nil, err
	}
	result := make(ivp.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result, nil
}
