package models

import (
	"fmt"
	"math"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

// PVArray models a row of n conductively coupled photovoltaic cells.
// Each cell follows the PVCell energy balance under its own irradiance
// (a linear shading gradient across the row) with nearest-neighbor
// heat conduction:
//
//	dTi/dt = f_cell(Ti, Gi) + coupling*(T_{i-1} - 2*Ti + T_{i+1})
//
// End cells couple to their single neighbor only.
type PVArray struct {
	n int
}

func NewPVArray(n int) *PVArray {
	if n < 2 {
		n = 2
	}
	return &PVArray{n: n}
}

func (a *PVArray) StateDim() int {
	return a.n
}

func (a *PVArray) RequiredParams() []string {
	return []string{"T_ambient", "irradiance", "c1", "c2", "c3", "c4", "c5", "c6", "coupling", "shading"}
}

func (a *PVArray) Derive(t float64, x ivp.State, p ivp.Params) (ivp.State, error) {
	Ta := p["T_ambient"]
	G0 := p["irradiance"]
	k := p["coupling"]
	shade := p["shading"]

	dx := make(ivp.State, a.n)
	for i := 0; i < a.n; i++ {
		T := x[i]
		if math.Abs(T) < singularFloor {
			return nil, fmt.Errorf("%w: cell %d c4/T term undefined at T=%g", ivp.ErrSingular, i, T)
		}

		// Irradiance falls off linearly across the row.
		G := G0 * (1 - shade*float64(i)/float64(a.n-1))

		heat := p["c1"] * G
		conv := p["c2"] * (T - Ta)
		rad := p["c3"] * (T*T*T*T - Ta*Ta*Ta*Ta)
		cond := p["c4"] / T
		elec := p["c5"] * G * (1 - p["c6"]*(T-pvRefTemp))

		couple := 0.0
		if i > 0 {
			couple += k * (x[i-1] - T)
		}
		if i < a.n-1 {
			couple += k * (x[i+1] - T)
		}

		dx[i] = heat - conv - rad - cond - elec + couple
	}
	return dx, nil
}

func (a *PVArray) DefaultState() ivp.State {
	s := make(ivp.State, a.n)
	for i := range s {
		s[i] = pvRefTemp
	}
	return s
}

func (a *PVArray) DefaultParams() ivp.Params {
	p := NewPVCell().DefaultParams()
	p["coupling"] = 0.05
	p["shading"] = 0.3
	return p
}
