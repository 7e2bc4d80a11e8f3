package models

import "github.com/ravik-m/ivpsim/internal/ivp"

// NoisyPVCell is the PVCell drift with a fluctuating irradiance term:
// passing clouds perturb the absorbed power, so the noise coefficient is
// sigma * c1 * G, proportional to the deterministic heating term.
type NoisyPVCell struct {
	*PVCell
}

func NewNoisyPVCell() *NoisyPVCell {
	return &NoisyPVCell{PVCell: NewPVCell()}
}

func (c *NoisyPVCell) RequiredParams() []string {
	return append(c.PVCell.RequiredParams(), "sigma")
}

func (c *NoisyPVCell) Diffuse(t float64, x ivp.State, p ivp.Params) (ivp.State, error) {
	return ivp.State{p["sigma"] * p["c1"] * p["irradiance"]}, nil
}

func (c *NoisyPVCell) DefaultParams() ivp.Params {
	p := c.PVCell.DefaultParams()
	p["sigma"] = 0.15
	return p
}
