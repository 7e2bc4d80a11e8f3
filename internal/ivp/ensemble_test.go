package ivp_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ravik-m/ivpsim/internal/ivp"
	"github.com/ravik-m/ivpsim/internal/steppers"
)

// driftless has zero drift; with constant noise its expectation stays at
// the initial state, which pins down what the ensemble mean must do.
type driftless struct{}

func (d *driftless) StateDim() int            { return 1 }
func (d *driftless) RequiredParams() []string { return nil }
func (d *driftless) Derive(t float64, x ivp.State, p ivp.Params) (ivp.State, error) {
	return ivp.State{0}, nil
}

func newEnsemble(trials int, seed int64) *ivp.Ensemble {
	return &ivp.Ensemble{
		Sys:      &driftless{},
		Diff:     constNoise{sigma: 1.0},
		Params:   nil,
		X0:       ivp.State{0},
		Cfg:      ivp.Config{T0: 0, TEnd: 1, Steps: 200},
		Stepper:  steppers.NewEulerMaruyama(),
		Trials:   trials,
		SeedBase: seed,
	}
}

var _ = Describe("Ensemble", func() {
	It("rejects fewer than one trial", func() {
		e := newEnsemble(0, 1)
		_, err := e.Run(context.Background())
		Expect(err).To(MatchError(ivp.ErrConfig))
	})

	It("keeps the mean of driftless noise near the initial state", func() {
		res, err := newEnsemble(500, 7).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		_, final := res.Mean.Final()
		// Final mean is N(0, 1/trials); 0.2 is far outside its spread.
		Expect(math.Abs(final[0])).To(BeNumerically("<", 0.2))
	})

	It("matches the Brownian variance sigma^2 * t at the endpoint", func() {
		res, err := newEnsemble(500, 11).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		_, v := res.Variance.Final()
		Expect(v[0]).To(BeNumerically("~", 1.0, 0.3))
	})

	It("shrinks the standard error roughly as 1/sqrt(trials)", func() {
		small, err := newEnsemble(10, 3).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		large, err := newEnsemble(1000, 3).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		_, vs := small.Variance.Final()
		_, vl := large.Variance.Final()
		seSmall := math.Sqrt(vs[0] / float64(small.Trials))
		seLarge := math.Sqrt(vl[0] / float64(large.Trials))

		// 100x the trials should cut the standard error ~10x.
		Expect(seSmall / seLarge).To(BeNumerically(">", 4))
	})

	It("is reproducible from its seed base regardless of scheduling", func() {
		a, err := newEnsemble(64, 99).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		b, err := newEnsemble(64, 99).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Mean).To(Equal(b.Mean))
		Expect(a.Variance).To(Equal(b.Variance))
	})

	It("retains trial trajectories only when asked", func() {
		e := newEnsemble(8, 5)
		res, err := e.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Trajectories).To(BeNil())

		e = newEnsemble(8, 5)
		e.Keep = true
		res, err = e.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Trajectories).To(HaveLen(8))
	})
})
