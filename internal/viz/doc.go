// Package viz renders trajectories: terminal charts (asciigraph), SVG
// export, and a bubbletea live view that steps an integration while it
// draws.
package viz
