package experiment

import (
	"fmt"
	"sort"

	"github.com/ravik-m/ivpsim/internal/ivp"
	"github.com/ravik-m/ivpsim/internal/models"
	"github.com/ravik-m/ivpsim/internal/steppers"
)

// Registry maps names to model and stepper constructors. Stochastic
// models also satisfy ivp.Diffusion; GetDiffusion reports which.
type Registry struct {
	models   map[string]func(cells int) ivp.System
	steppers map[string]func() ivp.Stepper
	sde      map[string]func() ivp.StochasticStepper
}

func NewRegistry() *Registry {
	r := &Registry{
		models:   make(map[string]func(cells int) ivp.System),
		steppers: make(map[string]func() ivp.Stepper),
		sde:      make(map[string]func() ivp.StochasticStepper),
	}

	r.models["pvcell"] = func(int) ivp.System { return models.NewPVCell() }
	r.models["pvarray"] = func(cells int) ivp.System { return models.NewPVArray(cells) }
	r.models["relaxation"] = func(int) ivp.System { return models.NewRelaxation() }
	r.models["brownian"] = func(int) ivp.System { return models.NewBrownian(1) }
	r.models["noisy_pvcell"] = func(int) ivp.System { return models.NewNoisyPVCell() }

	r.steppers["euler"] = func() ivp.Stepper { return steppers.NewEuler() }
	r.steppers["rk2"] = func() ivp.Stepper { return steppers.NewMidpoint() }
	r.steppers["midpoint"] = func() ivp.Stepper { return steppers.NewMidpoint() }
	r.steppers["rk4"] = func() ivp.Stepper { return steppers.NewRK4() }

	r.sde["maruyama"] = func() ivp.StochasticStepper { return steppers.NewEulerMaruyama() }

	return r
}

func (r *Registry) GetModel(name string, cells int) (ivp.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(cells), nil
}

func (r *Registry) GetStepper(name string) (ivp.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetStochasticStepper(name string) (ivp.StochasticStepper, error) {
	fn, ok := r.sde[name]
	if !ok {
		return nil, fmt.Errorf("unknown stochastic stepper: %s", name)
	}
	return fn(), nil
}

// GetDiffusion returns the model's diffusion coefficient if it has one.
func (r *Registry) GetDiffusion(sys ivp.System) (ivp.Diffusion, bool) {
	g, ok := sys.(ivp.Diffusion)
	return g, ok
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListSteppers() []string {
	names := make([]string, 0, len(r.steppers)+len(r.sde))
	for name := range r.steppers {
		names = append(names, name)
	}
	for name := range r.sde {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
