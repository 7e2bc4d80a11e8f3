package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

func TestPVArrayDimensions(t *testing.T) {
	arr := NewPVArray(6)
	if arr.StateDim() != 6 {
		t.Fatalf("expected 6 cells, got %d", arr.StateDim())
	}

	dx, err := arr.Derive(0, arr.DefaultState(), arr.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(dx) != 6 {
		t.Fatalf("derivative dim %d does not match state dim 6", len(dx))
	}
}

func TestPVArrayMinimumTwoCells(t *testing.T) {
	arr := NewPVArray(0)
	if arr.StateDim() != 2 {
		t.Fatalf("expected clamp to 2 cells, got %d", arr.StateDim())
	}
}

func TestPVArrayShadingGradient(t *testing.T) {
	arr := NewPVArray(4)
	p := arr.DefaultParams()
	p["shading"] = 0.5

	// With every cell at the same temperature, the sunny end of the row
	// must heat faster than the shaded end.
	dx, err := arr.Derive(0, arr.DefaultState(), p)
	if err != nil {
		t.Fatal(err)
	}
	if dx[0] <= dx[3] {
		t.Errorf("expected cell 0 (full sun) to heat faster than cell 3 (shaded): %g vs %g", dx[0], dx[3])
	}
}

func TestPVArrayCouplingPullsTowardNeighbors(t *testing.T) {
	arr := NewPVArray(3)
	p := arr.DefaultParams()
	p["shading"] = 0
	p["coupling"] = 10.0

	// Middle cell colder than its neighbors: strong coupling must give
	// it a larger heating rate than its warm neighbors get.
	x := ivp.State{320, 300, 320}
	dx, err := arr.Derive(0, x, p)
	if err != nil {
		t.Fatal(err)
	}
	if dx[1] <= dx[0] {
		t.Errorf("expected cold middle cell to heat fastest: middle %g, edge %g", dx[1], dx[0])
	}
}

func TestPVArraySingularCellTagged(t *testing.T) {
	arr := NewPVArray(3)
	_, err := arr.Derive(0, ivp.State{300, 0, 300}, arr.DefaultParams())
	if !errors.Is(err, ivp.ErrSingular) {
		t.Fatalf("expected ErrSingular, got %v", err)
	}
	if !strings.Contains(err.Error(), "cell 1") {
		t.Errorf("error should name the offending cell: %v", err)
	}
}
