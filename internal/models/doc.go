// Package models implements the ODE and SDE systems the lab ships with:
// the photovoltaic-cell thermal balance (single cell, coupled array, and
// a version with irradiance noise), Newton cooling with its closed form,
// and pure Brownian motion. Each model satisfies ivp.System (and, where
// stochastic, ivp.Diffusion) and carries usable defaults.
package models
