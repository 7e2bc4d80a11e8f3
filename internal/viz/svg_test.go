package viz

import (
	"strings"
	"testing"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

func sampleTrajectory() *ivp.Trajectory {
	return &ivp.Trajectory{
		Times:  []float64{0, 0.5, 1},
		States: []ivp.State{{300, 0}, {295, 1}, {293, 2}},
	}
}

func TestTrajectorySVG(t *testing.T) {
	svg := TrajectorySVG(sampleTrajectory(), 0, 800, 400, "#00ff00")

	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Fatal("output is not an SVG document")
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke color not applied")
	}
	if !strings.Contains(svg, "M") || !strings.Contains(svg, "L") {
		t.Error("path has no line segments")
	}
}

func TestTrajectorySVGTooShort(t *testing.T) {
	traj := &ivp.Trajectory{Times: []float64{0}, States: []ivp.State{{1}}}
	if svg := TrajectorySVG(traj, 0, 100, 100, "#fff"); svg != "" {
		t.Error("single-point trajectory should render nothing")
	}
}

func TestPlotSmoke(t *testing.T) {
	out := Plot(sampleTrajectory(), 0, 40, 5, "x0")
	if !strings.Contains(out, "x0") {
		t.Error("caption missing from plot")
	}

	all := PlotAll(sampleTrajectory(), 40, 5)
	if !strings.Contains(all, "x0") || !strings.Contains(all, "x1") {
		t.Error("PlotAll should chart every component")
	}
}
