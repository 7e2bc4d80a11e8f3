package config

var Presets = map[string]map[string]*Config{
	"pvcell": {
		"noon": {
			Model: "pvcell", Stepper: "rk4", TEnd: 600, Steps: 6000,
			Params: map[string]float64{"irradiance": 1000, "T_ambient": 298.15},
		},
		"overcast": {
			Model: "pvcell", Stepper: "rk4", TEnd: 600, Steps: 6000,
			Params: map[string]float64{"irradiance": 250, "T_ambient": 288.15},
		},
		"cooldown": {
			Model: "pvcell", Stepper: "euler", TEnd: 1200, Steps: 12000,
			Params:    map[string]float64{"irradiance": 0, "T_ambient": 283.15},
			InitState: []float64{330},
		},
	},
	"pvarray": {
		"shaded_row": {
			Model: "pvarray", Stepper: "rk4", TEnd: 600, Steps: 6000, Cells: 6,
			Params: map[string]float64{"shading": 0.5},
		},
		"uniform": {
			Model: "pvarray", Stepper: "rk4", TEnd: 600, Steps: 6000, Cells: 4,
			Params: map[string]float64{"shading": 0},
		},
	},
	"relaxation": {
		"textbook": {
			Model: "relaxation", Stepper: "euler", TEnd: 1, Steps: 1000,
			Params:    map[string]float64{"rate": 1, "T_ambient": 290},
			InitState: []float64{300},
		},
	},
	"noisy_pvcell": {
		"cloudy": {
			Model: "noisy_pvcell", Stepper: "maruyama", TEnd: 600, Steps: 6000,
			Trials: 200,
			Params: map[string]float64{"sigma": 0.3},
		},
		"calm": {
			Model: "noisy_pvcell", Stepper: "maruyama", TEnd: 600, Steps: 6000,
			Trials: 100,
			Params: map[string]float64{"sigma": 0.05},
		},
	},
	"brownian": {
		"unit": {
			Model: "brownian", Stepper: "maruyama", TEnd: 1, Steps: 1000,
			Trials: 1000,
			Params: map[string]float64{"sigma": 1},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
