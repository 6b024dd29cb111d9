package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/mdbench/internal/config"
)

type flags struct {
	configFile   string
	preset       string
	systemFile   string
	stateFile    string
	stepSize     float64
	pluginDir    string
	logLevel     string
	recordDir    string
	properties   []string
	seed         int64
	integrator   string
	failExitCode int
}

func (f *flags) addTo(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", "", "config file (yaml)")
	pf.StringVar(&f.preset, "preset", "", "start from a named preset")
	pf.StringVar(&f.systemFile, "system", "", "serialized system file")
	pf.StringVar(&f.stateFile, "state", "", "serialized state file")
	pf.Float64Var(&f.stepSize, "step-size", 0, "integration step size in ps")
	pf.StringVar(&f.pluginDir, "plugin-dir", "", "platform plugin directory")
	pf.StringVarP(&f.logLevel, "log-level", "L", "", "log level")
	pf.StringVar(&f.recordDir, "record", "", "store run records in this directory")
	pf.StringArrayVarP(&f.properties, "property", "p", nil, "platform property name=value (repeatable)")
	pf.Int64Var(&f.seed, "seed", 0, "random seed of the Langevin integrator")
	pf.StringVar(&f.integrator, "integrator", "", "integrator (langevin-middle, verlet)")
	pf.IntVar(&f.failExitCode, "fail-exit-code", config.DefaultFailExitCode, "exit status of a failed benchmark")
}

// resolve builds the effective configuration: defaults, then the preset, then
// the config file, then the flags given on the command line.
func (f *flags) resolve(a *App, cmd *cobra.Command) (*config.Config, error) {
	changed := cmd.Flags().Changed
	cfg := config.DefaultConfig()
	// a failure before the flags are applied still exits with the requested code
	if changed("fail-exit-code") {
		cfg.FailExitCode = f.failExitCode
	}
	if f.preset != "" {
		if !config.ApplyPreset(cfg, f.preset) {
			return cfg, fmt.Errorf("unknown preset %q", f.preset)
		}
	}
	if f.configFile != "" {
		loaded, err := config.LoadInto(a.fs, f.configFile, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if changed("system") {
		cfg.SystemFile = f.systemFile
	}
	if changed("state") {
		cfg.StateFile = f.stateFile
	}
	if changed("step-size") {
		cfg.StepSize = f.stepSize
	}
	if changed("plugin-dir") {
		cfg.PluginDir = f.pluginDir
	}
	if changed("record") {
		cfg.RecordDir = f.recordDir
	}
	if changed("seed") {
		cfg.Integrator.Seed = f.seed
	}
	if changed("integrator") {
		cfg.Integrator.Kind = f.integrator
	}
	if changed("fail-exit-code") {
		cfg.FailExitCode = f.failExitCode
	}
	for _, p := range f.properties {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return cfg, fmt.Errorf("property %q: expected name=value", p)
		}
		if cfg.Properties == nil {
			cfg.Properties = map[string]string{}
		}
		cfg.Properties[name] = value
	}
	return cfg, nil
}

// applyPositional maps [reportFile] [steps] [platform] [platformIndex]
// [deviceIndex] onto cfg. Missing trailing arguments keep their value.
func applyPositional(cfg *config.Config, args []string) {
	fields := []func(string){
		func(v string) { cfg.ReportFile = v },
		func(v string) { cfg.Steps = atoi(v) },
		func(v string) { cfg.Platform = v },
		func(v string) { cfg.PlatformIndex = v },
		func(v string) { cfg.DeviceIndex = v },
	}
	for i, v := range args {
		if i < len(fields) {
			fields[i](v)
		}
	}
}

// atoi reads the leading decimal integer of s, ignoring leading blanks and
// anything after the digits. A string without digits reads as 0.
func atoi(s string) int {
	s = strings.TrimLeft(s, " \t\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		return -n
	}
	return n
}
