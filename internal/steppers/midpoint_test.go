package steppers

import (
	"math"
	"testing"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

func TestMidpointAccuracy(t *testing.T) {
	x := march(t, NewMidpoint(), ivp.State{300}, 1.0, 100)

	exact := decayExact(1.0, 300, decayParams)
	if math.Abs(x[0]-exact) > 1e-3 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], exact)
	}
}

func TestMidpointSecondOrder(t *testing.T) {
	exact := decayExact(1.0, 300, decayParams)

	coarse := math.Abs(march(t, NewMidpoint(), ivp.State{300}, 1.0, 50)[0] - exact)
	fine := math.Abs(march(t, NewMidpoint(), ivp.State{300}, 1.0, 100)[0] - exact)

	ratio := coarse / fine
	if ratio < 3.5 || ratio > 4.5 {
		t.Errorf("halving dt should quarter the error for RK2, got ratio %.3f", ratio)
	}
}
