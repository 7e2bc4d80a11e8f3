package experiment

import (
	"context"
	"fmt"

	"github.com/ravik-m/ivpsim/internal/config"
	"github.com/ravik-m/ivpsim/internal/ivp"
)

// Experiment assembles one configured integration: model, merged
// parameters, initial state, and stepper.
type Experiment struct {
	Cfg    *config.Config
	Sys    ivp.System
	Diff   ivp.Diffusion
	Params ivp.Params
	X0     ivp.State
}

func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	sys, err := reg.GetModel(cfg.Model, cfg.Cells)
	if err != nil {
		return nil, err
	}

	e := &Experiment{Cfg: cfg, Sys: sys}
	if g, ok := reg.GetDiffusion(sys); ok {
		e.Diff = g
	}

	if d, ok := sys.(ivp.Defaulter); ok {
		e.Params = cfg.MergeParams(d.DefaultParams())
		e.X0 = d.DefaultState()
	} else {
		e.Params = cfg.MergeParams(ivp.Params{})
	}
	if len(cfg.InitState) > 0 {
		e.X0 = ivp.State(cfg.InitState).Clone()
	}
	if len(e.X0) != sys.StateDim() {
		return nil, fmt.Errorf("%w: model %s wants %d state components, got %d",
			ivp.ErrConfig, cfg.Model, sys.StateDim(), len(e.X0))
	}

	return e, nil
}

// Run integrates deterministically with the named stepper.
func (e *Experiment) Run(ctx context.Context, reg *Registry) (*ivp.Trajectory, error) {
	st, err := reg.GetStepper(e.Cfg.Stepper)
	if err != nil {
		return nil, err
	}
	return ivp.Integrate(ctx, e.Sys, e.Params, e.X0, e.Cfg.RunConfig(), st)
}

// RunEnsemble runs the Monte Carlo aggregator with the named stochastic
// stepper. The model must provide a diffusion coefficient.
func (e *Experiment) RunEnsemble(ctx context.Context, reg *Registry, keep bool) (*ivp.EnsembleResult, error) {
	if e.Diff == nil {
		return nil, fmt.Errorf("model %s has no diffusion term", e.Cfg.Model)
	}
	st, err := reg.GetStochasticStepper(e.Cfg.Stepper)
	if err != nil {
		return nil, err
	}

	ens := &ivp.Ensemble{
		Sys:      e.Sys,
		Diff:     e.Diff,
		Params:   e.Params,
		X0:       e.X0,
		Cfg:      e.Cfg.RunConfig(),
		Stepper:  st,
		Trials:   e.Cfg.Trials,
		SeedBase: e.Cfg.Seed,
		Keep:     keep,
	}
	return ens.Run(ctx)
}
