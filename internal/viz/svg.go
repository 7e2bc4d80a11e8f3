package viz

import (
	"fmt"
	"strings"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

// TrajectorySVG renders one state component against time as an SVG path.
func TrajectorySVG(traj *ivp.Trajectory, component, width, height int, strokeColor string) string {
	if traj.Len() < 2 {
		return ""
	}

	data := traj.Component(component)
	minT, maxT := traj.Times[0], traj.Times[len(traj.Times)-1]
	minY, maxY := data[0], data[0]
	for _, v := range data {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeT := maxT - minT
	rangeY := maxY - minY
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range data {
		x := (traj.Times[i] - minT) / rangeT * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
