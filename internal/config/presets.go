package config

import (
	"sort"
)

type Preset struct {
	Name        string
	Description string
	Apply       func(*Config)
}

var presets = map[string]Preset{
	"smoke": {
		Name:        "smoke",
		Description: "ten steps on the Reference platform",
		Apply: func(c *Config) {
			c.Platform = "Reference"
			c.Steps = 10
		},
	},
	"cpu": {
		Name:        "cpu",
		Description: "thousand steps on the CPU platform",
		Apply: func(c *Config) {
			c.Platform = "CPU"
			c.Steps = 1000
		},
	},
	"gpu": {
		Name:        "gpu",
		Description: "ten thousand steps on the OpenCL platform",
		Apply: func(c *Config) {
			c.Platform = "OpenCL"
			c.Steps = 10000
		},
	},
	"nve": {
		Name:        "nve",
		Description: "Verlet integration without thermostat on CPU",
		Apply: func(c *Config) {
			c.Platform = "CPU"
			c.Steps = 1000
			c.Integrator.Kind = "verlet"
			c.StepSize = 0.002
		},
	},
}

// ApplyPreset applies the named preset to cfg and reports whether it exists.
func ApplyPreset(cfg *Config, name string) bool {
	p, ok := presets[name]
	if ok {
		p.Apply(cfg)
	}
	return ok
}

// GetPreset returns the default config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.Apply(cfg)
	return cfg
}

func ListPresets() []Preset {
	list := make([]Preset, 0, len(presets))
	for _, p := range presets {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
