package config

import (
	"fmt"

	"github.com/drone/envsubst"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mdbench/internal/bench"
	"github.com/san-kum/mdbench/internal/engine"
)

const DefaultFailExitCode = 0

type Config struct {
	SystemFile    string            `yaml:"system"`
	StateFile     string            `yaml:"state"`
	StepSize      float64           `yaml:"step_size"`
	ReportFile    string            `yaml:"report"`
	Steps         int               `yaml:"steps"`
	Platform      string            `yaml:"platform"`
	PlatformIndex string            `yaml:"platform_index"`
	DeviceIndex   string            `yaml:"device_index"`
	Properties    map[string]string `yaml:"properties,omitempty"`
	Integrator    IntegratorConfig  `yaml:"integrator"`
	PluginDir     string            `yaml:"plugin_dir,omitempty"`
	RecordDir     string            `yaml:"record_dir,omitempty"`
	FailExitCode  int               `yaml:"fail_exit_code"`
}

type IntegratorConfig struct {
	Kind        string  `yaml:"kind"`
	Temperature float64 `yaml:"temperature"`
	Friction    float64 `yaml:"friction"`
	Seed        int64   `yaml:"seed,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		SystemFile:    bench.DefaultSystemFile,
		StateFile:     bench.DefaultStateFile,
		StepSize:      bench.DefaultStepSize,
		ReportFile:    bench.DefaultReportFile,
		Steps:         bench.DefaultSteps,
		Platform:      bench.DefaultPlatform,
		PlatformIndex: bench.DefaultSelectorIndex,
		DeviceIndex:   bench.DefaultSelectorIndex,
		Integrator: IntegratorConfig{
			Kind:        bench.IntegratorLangevinMiddle,
			Temperature: bench.DefaultTemperature,
			Friction:    bench.DefaultFriction,
		},
		FailExitCode: DefaultFailExitCode,
	}
}

// Load reads a YAML config over the defaults. ${VAR} references are expanded
// from the environment before parsing.
func Load(fs vfs.FileSystem, path string) (*Config, error) {
	return LoadInto(fs, path, DefaultConfig())
}

// LoadInto reads a YAML config over cfg, so only keys present in the file
// change.
func LoadInto(fs vfs.FileSystem, path string, cfg *Config) (*Config, error) {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	expanded, err := envsubst.EvalEnv(string(data))
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(fs vfs.FileSystem, path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return vfs.WriteFile(fs, path, data, 0644)
}

// Options converts the config into driver options. Explicit properties win
// over the positional selector indices.
func (c *Config) Options() bench.Options {
	opts := bench.DefaultOptions()
	opts.SystemFile = c.SystemFile
	opts.StateFile = c.StateFile
	opts.StepSize = c.StepSize
	opts.ReportFile = c.ReportFile
	opts.Steps = c.Steps
	opts.Platform = c.Platform
	opts.Properties = bench.MergeProperties(
		bench.SelectorProperties(c.PlatformIndex, c.DeviceIndex),
		engine.Properties(c.Properties),
	)
	opts.Integrator = c.Integrator.Kind
	opts.Temperature = c.Integrator.Temperature
	opts.Friction = c.Integrator.Friction
	opts.Seed = c.Integrator.Seed
	return opts
}
