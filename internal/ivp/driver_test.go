package ivp_test

import (
	"context"
	"errors"
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ravik-m/ivpsim/internal/ivp"
	"github.com/ravik-m/ivpsim/internal/steppers"
)

// cooling relaxes toward T_ambient at the given rate.
type cooling struct{}

func (c *cooling) StateDim() int             { return 1 }
func (c *cooling) RequiredParams() []string  { return []string{"rate", "T_ambient"} }
func (c *cooling) Derive(t float64, x ivp.State, p ivp.Params) (ivp.State, error) {
	return ivp.State{-p["rate"] * (x[0] - p["T_ambient"])}, nil
}

// singular fails once its state drops below 0.5, mimicking a model with
// a division that leaves its domain.
type singular struct{}

func (s *singular) StateDim() int            { return 1 }
func (s *singular) RequiredParams() []string { return nil }
func (s *singular) Derive(t float64, x ivp.State, p ivp.Params) (ivp.State, error) {
	if x[0] < 0.5 {
		return nil, fmt.Errorf("%w: domain left at x=%g", ivp.ErrSingular, x[0])
	}
	return ivp.State{-1}, nil
}

// explosive squares its state each step until it overflows to +Inf.
type explosive struct{}

func (e *explosive) StateDim() int            { return 1 }
func (e *explosive) RequiredParams() []string { return nil }
func (e *explosive) Derive(t float64, x ivp.State, p ivp.Params) (ivp.State, error) {
	return ivp.State{x[0] * x[0]}, nil
}

var _ = Describe("Integrate", func() {
	var (
		ctx    context.Context
		params ivp.Params
		cfg    ivp.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		params = ivp.Params{"rate": 1.0, "T_ambient": 290.0}
		cfg = ivp.Config{T0: 0, TEnd: 1, Steps: 1000}
	})

	It("keeps the initial condition exactly", func() {
		x0 := ivp.State{300}
		traj, err := ivp.Integrate(ctx, &cooling{}, params, x0, cfg, steppers.NewEuler())
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Times[0]).To(Equal(0.0))
		Expect(traj.States[0]).To(Equal(x0))
	})

	It("returns Steps+1 grid points ending on t_end", func() {
		traj, err := ivp.Integrate(ctx, &cooling{}, params, ivp.State{300}, cfg, steppers.NewEuler())
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Len()).To(Equal(1001))
		tEnd, _ := traj.Final()
		Expect(tEnd).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("reproduces the closed-form endpoint of the cooling law", func() {
		traj, err := ivp.Integrate(ctx, &cooling{}, params, ivp.State{300}, cfg, steppers.NewEuler())
		Expect(err).NotTo(HaveOccurred())
		_, final := traj.Final()
		Expect(final[0]).To(BeNumerically("~", 290+10*math.Exp(-1), 0.01))
	})

	It("is deterministic for deterministic steppers", func() {
		a, err := ivp.Integrate(ctx, &cooling{}, params, ivp.State{300}, cfg, steppers.NewRK4())
		Expect(err).NotTo(HaveOccurred())
		b, err := ivp.Integrate(ctx, &cooling{}, params, ivp.State{300}, cfg, steppers.NewRK4())
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("preserves the state dimension at every index", func() {
		traj, err := ivp.Integrate(ctx, &cooling{}, params, ivp.State{300}, cfg, steppers.NewMidpoint())
		Expect(err).NotTo(HaveOccurred())
		for _, s := range traj.States {
			Expect(s).To(HaveLen(1))
		}
	})

	Describe("configuration rejection", func() {
		It("rejects zero steps before stepping", func() {
			cfg.Steps = 0
			traj, err := ivp.Integrate(ctx, &cooling{}, params, ivp.State{300}, cfg, steppers.NewEuler())
			Expect(err).To(MatchError(ivp.ErrConfig))
			Expect(traj).To(BeNil())
		})

		It("rejects t_end <= t0 before stepping", func() {
			cfg.TEnd = cfg.T0
			traj, err := ivp.Integrate(ctx, &cooling{}, params, ivp.State{300}, cfg, steppers.NewEuler())
			Expect(err).To(MatchError(ivp.ErrConfig))
			Expect(traj).To(BeNil())
		})

		It("rejects a missing required parameter", func() {
			traj, err := ivp.Integrate(ctx, &cooling{}, ivp.Params{"rate": 1}, ivp.State{300}, cfg, steppers.NewEuler())
			Expect(err).To(MatchError(ivp.ErrMissingParam))
			Expect(traj).To(BeNil())
		})

		It("rejects an initial state of the wrong dimension", func() {
			traj, err := ivp.Integrate(ctx, &cooling{}, params, ivp.State{300, 1}, cfg, steppers.NewEuler())
			Expect(err).To(MatchError(ivp.ErrConfig))
			Expect(traj).To(BeNil())
		})
	})

	Describe("failure mid-run", func() {
		It("halts on a singular right-hand side with the offending step tagged", func() {
			cfg = ivp.Config{T0: 0, TEnd: 1, Steps: 5}
			traj, err := ivp.Integrate(ctx, &singular{}, nil, ivp.State{1}, cfg, steppers.NewEuler())

			var stepErr *ivp.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(errors.Is(err, ivp.ErrSingular)).To(BeTrue())
			// x: 1.0, 0.8, 0.6, 0.4 -> the step from 0.4 fails.
			Expect(stepErr.Step).To(Equal(3))
			Expect(stepErr.State[0]).To(BeNumerically("~", 0.4, 1e-9))
			Expect(traj.Len()).To(Equal(4))
		})

		It("halts on a non-finite state and returns the partial trajectory", func() {
			cfg = ivp.Config{T0: 0, TEnd: 20, Steps: 20}
			traj, err := ivp.Integrate(ctx, &explosive{}, nil, ivp.State{10}, cfg, steppers.NewEuler())

			Expect(errors.Is(err, ivp.ErrNonFinite)).To(BeTrue())
			Expect(traj.Len()).To(BeNumerically(">", 1))
			Expect(traj.Len()).To(BeNumerically("<", 21))
			for _, s := range traj.States {
				Expect(s.IsValid()).To(BeTrue())
			}
		})
	})

	It("stops between steps when the context is canceled", func() {
		canceled, cancel := context.WithCancel(context.Background())
		cancel()
		traj, err := ivp.Integrate(canceled, &cooling{}, params, ivp.State{300}, cfg, steppers.NewEuler())
		Expect(err).To(MatchError(context.Canceled))
		Expect(traj.Len()).To(Equal(1))
	})
})

var _ = Describe("IntegrateSDE", func() {
	var (
		ctx    context.Context
		params ivp.Params
		cfg    ivp.Config
		sys    *cooling
		noise  ivp.Diffusion
	)

	BeforeEach(func() {
		ctx = context.Background()
		params = ivp.Params{"rate": 1.0, "T_ambient": 290.0}
		cfg = ivp.Config{T0: 0, TEnd: 1, Steps: 500, Seed: 42}
		sys = &cooling{}
		noise = constNoise{sigma: 0.5}
	})

	It("reproduces a trajectory from its seed", func() {
		a, err := ivp.IntegrateSDE(ctx, sys, noise, params, ivp.State{300}, cfg, steppers.NewEulerMaruyama(), nil)
		Expect(err).NotTo(HaveOccurred())
		b, err := ivp.IntegrateSDE(ctx, sys, noise, params, ivp.State{300}, cfg, steppers.NewEulerMaruyama(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("produces different paths from different seeds", func() {
		a, err := ivp.IntegrateSDE(ctx, sys, noise, params, ivp.State{300}, cfg, steppers.NewEulerMaruyama(), nil)
		Expect(err).NotTo(HaveOccurred())
		cfg.Seed = 43
		b, err := ivp.IntegrateSDE(ctx, sys, noise, params, ivp.State{300}, cfg, steppers.NewEulerMaruyama(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.States).NotTo(Equal(b.States))
	})

	It("keeps the initial condition exactly", func() {
		traj, err := ivp.IntegrateSDE(ctx, sys, noise, params, ivp.State{300}, cfg, steppers.NewEulerMaruyama(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.States[0]).To(Equal(ivp.State{300}))
		Expect(traj.Len()).To(Equal(501))
	})
})

type constNoise struct {
	sigma float64
}

func (c constNoise) Diffuse(t float64, x ivp.State, p ivp.Params) (ivp.State, error) {
	g := make(ivp.State, len(x))
	for i := range g {
		g[i] = c.sigma
	}
	return g, nil
}
