package steppers

import "github.com/ravik-m/ivpsim/internal/ivp"

// EulerMaruyama is the stochastic analogue of forward Euler:
// x' = x + dt*f(t, x) + g(t, x) * dW, with dW drawn by the driver.
// Strong order 1/2, weak order 1.
//
// It is stateless so a single instance may serve every ensemble trial.
type EulerMaruyama struct{}

func NewEulerMaruyama() *EulerMaruyama {
	return &EulerMaruyama{}
}

func (em *EulerMaruyama) StepSDE(sys ivp.System, g ivp.Diffusion, x ivp.State, p ivp.Params, t, dt float64, dw ivp.State) (ivp.State, error) {
	dx, err := sys.Derive(t, x, p)
	if err != nil {
		return nil, err
	}
	noise, err := g.Diffuse(t, x, p)
	if err != nil {
		return nil, err
	}

	result := make(ivp.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i] + noise[i]*dw[i]
	}
	return result, nil
}

// Step lets EulerMaruyama stand in as a deterministic stepper when the
// diffusion is absent; it then reduces to forward Euler.
func (em *EulerMaruyama) Step(sys ivp.System, x ivp.State, p ivp.Params, t, dt float64) (ivp.State, error) {
	return (&Euler{}).Step(sys, x, p, t, dt)
}
