package bench

import (
	"fmt"

	"github.com/san-kum/mdbench/internal/engine"
	"github.com/san-kum/mdbench/internal/platforms"
)

const (
	DefaultReportFile    = "tmp.log"
	DefaultSteps         = 10
	DefaultPlatform      = platforms.OpenCLName
	DefaultSelectorIndex = "0"

	DefaultSystemFile = "apoa1rf-system.xml"
	DefaultStateFile  = "apoa1-state.xml"
	DefaultStepSize   = 0.004 // ps

	DefaultTemperature = 300.0 // K
	DefaultFriction    = 91.0  // 1/ps
)

const (
	IntegratorLangevinMiddle = "langevin-middle"
	IntegratorVerlet         = "verlet"
)

type Options struct {
	SystemFile string
	StateFile  string
	StepSize   float64
	ReportFile string
	Steps      int
	Platform   string
	// Properties are passed to the context as is; nil passes none.
	Properties engine.Properties

	Integrator  string
	Temperature float64
	Friction    float64
	// Seed for the Langevin noise; 0 picks a time based seed.
	Seed int64
}

func DefaultOptions() Options {
	return Options{
		SystemFile:  DefaultSystemFile,
		StateFile:   DefaultStateFile,
		StepSize:    DefaultStepSize,
		ReportFile:  DefaultReportFile,
		Steps:       DefaultSteps,
		Platform:    DefaultPlatform,
		Integrator:  IntegratorLangevinMiddle,
		Temperature: DefaultTemperature,
		Friction:    DefaultFriction,
	}
}

func (o *Options) Validate() error {
	if o.Steps < 0 {
		return fmt.Errorf("negative step count %d", o.Steps)
	}
	if o.StepSize <= 0 {
		return fmt.Errorf("step size must be positive, got %g", o.StepSize)
	}
	switch o.Integrator {
	case IntegratorLangevinMiddle, IntegratorVerlet:
	default:
		return fmt.Errorf("unknown integrator %q", o.Integrator)
	}
	return nil
}

func (o *Options) newIntegrator() engine.Integrator {
	if o.Integrator == IntegratorVerlet {
		return engine.NewVerletIntegrator(o.StepSize)
	}
	integ := engine.NewLangevinMiddleIntegrator(o.Temperature, o.Friction, o.StepSize)
	if o.Seed != 0 {
		integ.SetRandomSeed(o.Seed)
	}
	return integ
}

// SelectorProperties maps the positional platform and device indices to
// selector properties. Both at the default index yield nil; otherwise both
// keys are set.
func SelectorProperties(platformIndex, deviceIndex string) engine.Properties {
	if platformIndex == DefaultSelectorIndex && deviceIndex == DefaultSelectorIndex {
		return nil
	}
	return engine.Properties{
		platforms.PlatformIndexProperty: platformIndex,
		platforms.DeviceIndexProperty:   deviceIndex,
	}
}

// MergeProperties combines property sets, later sets winning. The result is
// nil when no set carries a key.
func MergeProperties(sets ...engine.Properties) engine.Properties {
	var merged engine.Properties
	for _, set := range sets {
		for k, v := range set {
			if merged == nil {
				merged = engine.Properties{}
			}
			merged[k] = v
		}
	}
	return merged
}
