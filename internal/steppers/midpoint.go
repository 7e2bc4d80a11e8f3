package steppers

import "github.com/ravik-m/ivpsim/internal/ivp"

// Midpoint is the explicit second-order Runge-Kutta rule: one Euler half
// step to the midpoint, then a full step using the midpoint slope.
type Midpoint struct {
	scratch ivp.State
}

func NewMidpoint() *Midpoint {
	return &Midpoint{}
}

func (m *Midpoint) Step(sys ivp.System, x ivp.State, p ivp.Params, t, dt float64) (ivp.State, error) {
	n := len(x)
	if len(m.scratch) != n {
		m.scratch = make(ivp.State, n)
	}

	k1, err := sys.Derive(t, x, p)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.scratch[i] = x[i] + dt*0.5*k1[i]
	}

	k2, err := sys.Derive(t+dt*0.5, m.scratch, p)
	if err != nil {
		return nil, err
	}

	result := make(ivp.State, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt*k2[i]
	}
	return result, nil
}
