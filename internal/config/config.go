package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/oscsim/internal/dynamo"
	"github.com/san-kum/oscsim/internal/oscillator"
	"github.com/san-kum/oscsim/internal/sim"
)

const (
	DefaultTMax      = 50.0
	DefaultSamples   = 1000
	DefaultTolerance = 1e-8
	DefaultDt        = 0.01
)

type Config struct {
	Params     oscillator.Params `yaml:"params"`
	InitState  InitStateConfig   `yaml:"init_state"`
	TMax       float64           `yaml:"tmax"`
	Samples    int               `yaml:"samples"`
	Tolerance  float64           `yaml:"tolerance"`
	Integrator string            `yaml:"integrator"`
	Dt         float64           `yaml:"dt"`
}

type InitStateConfig struct {
	Q float64 `yaml:"q"`
	V float64 `yaml:"v"`
}

func DefaultConfig() *Config {
	return &Config{
		Params:     oscillator.DefaultParams(),
		TMax:       DefaultTMax,
		Samples:    DefaultSamples,
		Tolerance:  DefaultTolerance,
		Integrator: "rk45",
		Dt:         DefaultDt,
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

// X0 returns the configured initial state (Q0, V0).
func (c *Config) X0() dynamo.State {
	return dynamo.State{c.InitState.Q, c.InitState.V}
}

// SimConfig translates file settings into a run configuration. The adaptive
// driver is used unless a fixed-step integrator is named explicitly.
func (c *Config) SimConfig() sim.Config {
	sc := sim.DefaultConfig()
	sc.TMax = c.TMax
	sc.Samples = c.Samples
	sc.Tolerance = c.Tolerance
	sc.Dt = c.Dt
	sc.Adaptive = c.Integrator == "" || c.Integrator == "rk45"
	return sc
}
