package config

import "github.com/san-kum/oscsim/internal/oscillator"

var Presets = map[string]*Config{
	"free": {
		Params:    oscillator.Params{Mass: 1.0, Damping: 0.0, Spring: 1.0},
		InitState: InitStateConfig{Q: 1.0},
		TMax:      50.0, Samples: 1000, Tolerance: 1e-8, Integrator: "rk45", Dt: 0.01,
	},
	"decay": {
		Params:    oscillator.Params{Mass: 1.0, Damping: 0.1, Spring: 1.0},
		InitState: InitStateConfig{Q: 1.0},
		TMax:      50.0, Samples: 1000, Tolerance: 1e-8, Integrator: "rk45", Dt: 0.01,
	},
	"resonance": {
		Params: oscillator.Params{Mass: 1.0, Damping: 0.05, Spring: 1.0, ForceAmp: 1.0, ForceFreq: 1.0},
		TMax:   120.0, Samples: 2400, Tolerance: 1e-8, Integrator: "rk45", Dt: 0.01,
	},
	"beats": {
		Params: oscillator.Params{Mass: 1.0, Damping: 0.0, Spring: 1.0, ForceAmp: 0.5, ForceFreq: 0.8},
		TMax:   120.0, Samples: 2400, Tolerance: 1e-8, Integrator: "rk45", Dt: 0.01,
	},
	"overdamped": {
		Params:    oscillator.Params{Mass: 1.0, Damping: 2.0, Spring: 1.0},
		InitState: InitStateConfig{Q: 1.0},
		TMax:      20.0, Samples: 400, Tolerance: 1e-8, Integrator: "rk45", Dt: 0.01,
	},
	"stiff-drive": {
		Params: oscillator.Params{Mass: 0.5, Damping: 0.2, Spring: 40.0, ForceAmp: 2.0, ForceFreq: 9.0},
		TMax:   30.0, Samples: 1500, Tolerance: 1e-8, Integrator: "rk45", Dt: 0.005,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
