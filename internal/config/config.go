package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

const (
	DefaultSteps  = 1000
	DefaultTEnd   = 10.0
	DefaultTrials = 100
	DefaultCells  = 4
)

type Config struct {
	Model     string             `yaml:"model"`
	Stepper   string             `yaml:"stepper"`
	T0        float64            `yaml:"t0"`
	TEnd      float64            `yaml:"t_end"`
	Steps     int                `yaml:"steps"`
	Seed      int64              `yaml:"seed"`
	Trials    int                `yaml:"trials"`
	Cells     int                `yaml:"cells"`
	InitState []float64          `yaml:"init_state"`
	Params    map[string]float64 `yaml:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:   "pvcell",
		Stepper: "rk4",
		T0:      0,
		TEnd:    DefaultTEnd,
		Steps:   DefaultSteps,
		Trials:  DefaultTrials,
		Cells:   DefaultCells,
		Params:  map[string]float64{},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RunConfig converts the file-level settings into the driver's Config.
func (c *Config) RunConfig() ivp.Config {
	return ivp.Config{
		T0:    c.T0,
		TEnd:  c.TEnd,
		Steps: c.Steps,
		Seed:  c.Seed,
	}
}

// MergeParams lays the file's params over the model defaults; file keys win.
func (c *Config) MergeParams(defaults ivp.Params) ivp.Params {
	p := defaults.Clone()
	for k, v := range c.Params {
		p[k] = v
	}
	return p
}
