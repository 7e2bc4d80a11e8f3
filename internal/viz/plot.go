package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

// Plot renders one state component of a trajectory as a terminal chart.
func Plot(traj *ivp.Trajectory, component, width, height int, caption string) string {
	data := traj.Component(component)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotAll renders every component as its own chart, stacked.
func PlotAll(traj *ivp.Trajectory, width, height int) string {
	out := ""
	for i := 0; i < traj.Dim(); i++ {
		out += Plot(traj, i, width, height, fmt.Sprintf("x%d", i)) + "\n\n"
	}
	return out
}
