package models

import (
	"fmt"
	"math"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

// singularFloor is the |T| below which the conductive c4/T term is
// treated as undefined rather than evaluated.
const singularFloor = 1e-9

// PVCell models the temperature of a single photovoltaic cell under
// irradiance. The energy balance per unit heat capacity is
//
//	dT/dt = c1*G - c2*(T - Ta) - c3*(T^4 - Ta^4) - c4/T - c5*G*(1 - c6*(T - Tref))
//
// absorbed irradiance, convective loss, radiative loss, conductive sink
// through the mount (singular at T=0), and extracted electrical power
// with a linear temperature derating around Tref = 298.15 K.
type PVCell struct{}

func NewPVCell() *PVCell {
	return &PVCell{}
}

const pvRefTemp = 298.15

func (c *PVCell) StateDim() int {
	return 1
}

func (c *PVCell) RequiredParams() []string {
	return []string{"T_ambient", "irradiance", "c1", "c2", "c3", "c4", "c5", "c6"}
}

func (c *PVCell) Derive(t float64, x ivp.State, p ivp.Params) (ivp.State, error) {
	T := x[0]
	if math.Abs(T) < singularFloor {
		return nil, fmt.Errorf("%w: c4/T term undefined at T=%g", ivp.ErrSingular, T)
	}

	Ta := p["T_ambient"]
	G := p["irradiance"]

	heat := p["c1"] * G
	conv := p["c2"] * (T - Ta)
	rad := p["c3"] * (T*T*T*T - Ta*Ta*Ta*Ta)
	cond := p["c4"] / T
	elec := p["c5"] * G * (1 - p["c6"]*(T-pvRefTemp))

	return ivp.State{heat - conv - rad - cond - elec}, nil
}

func (c *PVCell) DefaultState() ivp.State {
	return ivp.State{pvRefTemp}
}

func (c *PVCell) DefaultParams() ivp.Params {
	return ivp.Params{
		"T_ambient":  293.15,
		"irradiance": 1000.0,
		"c1":         0.025,
		"c2":         0.0135,
		"c3":         2.0e-11,
		"c4":         1.2,
		"c5":         0.004,
		"c6":         0.0045,
	}
}
