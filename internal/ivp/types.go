package ivp

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// Params holds named model coefficients. Read-only for the duration of a
// run; the driver validates required keys before the first step.
type Params map[string]float64

func (p Params) Require(keys ...string) error {
	for _, k := range keys {
		if _, ok := p[k]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingParam, k)
		}
	}
	return nil
}

func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// System is the right-hand side of an ODE dx/dt = f(t, x).
// Derive must be pure: same inputs, same outputs, no retained state.
// It returns an error (ErrSingular) where the model is undefined
// instead of letting Inf/NaN escape into the trajectory.
type System interface {
	Derive(t float64, x State, p Params) (State, error)
	StateDim() int
	RequiredParams() []string
}

// Diffusion is the noise coefficient g(t, x) of an SDE
// dx = f(t, x) dt + g(t, x) dW. Same purity contract as System.
type Diffusion interface {
	Diffuse(t float64, x State, p Params) (State, error)
}

// Stepper advances a state by one fixed increment. Implementations carry
// no state between calls beyond reusable scratch buffers.
type Stepper interface {
	Step(sys System, x State, p Params, t, dt float64) (State, error)
}

// StochasticStepper advances an SDE state by one increment. dw holds one
// independent N(0, sqrt(dt)) draw per component, owned by this step.
type StochasticStepper interface {
	StepSDE(sys System, g Diffusion, x State, p Params, t, dt float64, dw State) (State, error)
}

// Defaulter is implemented by models that ship usable default
// coefficients and initial conditions.
type Defaulter interface {
	DefaultParams() Params
	DefaultState() State
}

type Config struct {
	T0    float64
	TEnd  float64
	Steps int
	Seed  int64
}

func DefaultConfig() Config {
	return Config{
		T0:    0,
		TEnd:  10.0,
		Steps: 1000,
	}
}

func (c Config) Dt() float64 {
	return (c.TEnd - c.T0) / float64(c.Steps)
}

func (c Config) Validate() error {
	if c.Steps < 1 {
		return fmt.Errorf("%w: steps must be >= 1, got %d", ErrConfig, c.Steps)
	}
	if c.TEnd <= c.T0 {
		return fmt.Errorf("%w: t_end (%g) must be greater than t0 (%g)", ErrConfig, c.TEnd, c.T0)
	}
	return nil
}

// Trajectory is the full integration path: Steps+1 grid points with
// Times[0] = t0 and States[0] equal to the initial condition exactly.
type Trajectory struct {
	Times  []float64
	States []State
}

func newTrajectory(capacity int) *Trajectory {
	return &Trajectory{
		Times:  make([]float64, 0, capacity),
		States: make([]State, 0, capacity),
	}
}

func (tr *Trajectory) append(t float64, x State) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, x)
}

func (tr *Trajectory) Len() int {
	return len(tr.Times)
}

func (tr *Trajectory) Dim() int {
	if len(tr.States) == 0 {
		return 0
	}
	return len(tr.States[0])
}

func (tr *Trajectory) At(i int) (float64, State) {
	return tr.Times[i], tr.States[i]
}

func (tr *Trajectory) Final() (float64, State) {
	n := tr.Len() - 1
	return tr.Times[n], tr.States[n]
}

// Component returns the series of one state component, for plotting.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for j, s := range tr.States {
		out[j] = s[i]
	}
	return out
}
