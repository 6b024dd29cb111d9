package bench

import (
	"errors"
	"fmt"
	"time"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/san-kum/mdbench/internal/engine"
)

type Clock func() time.Time

// Result is the outcome of one successful benchmark run.
type Result struct {
	Steps      int
	SystemFile string
	Platform   string
	Properties engine.Properties
	StepSize   float64
	NsPerDay   float64
	Elapsed    time.Duration
	Total      time.Duration
}

type Runner struct {
	registry *engine.Registry
	fs       vfs.FileSystem
	now      Clock
}

type Option func(*Runner)

func WithFileSystem(fs vfs.FileSystem) Option {
	return func(r *Runner) { r.fs = fs }
}

func WithClock(c Clock) Option {
	return func(r *Runner) { r.now = c }
}

func NewRunner(registry *engine.Registry, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		fs:       osfs.OsFs,
		now:      time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Runner) FileSystem() vfs.FileSystem {
	return r.fs
}

// Run executes one benchmark. The report file is created first and filled as
// the run proceeds. Every engine failure comes back as *engine.SimulationError.
func (r *Runner) Run(opts Options) (res *Result, err error) {
	if err := opts.Validate(); err != nil {
		return nil, engine.Wrap("options", err)
	}
	start := r.now()
	log := log.WithValues("platform", opts.Platform, "steps", opts.Steps)

	out, err := r.fs.Create(opts.ReportFile)
	if err != nil {
		return nil, engine.Wrap("create report", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			res, err = nil, engine.Wrap("close report", cerr)
		}
	}()
	rep := &report{w: out}
	rep.header(opts.Steps, opts.SystemFile)

	platform, err := r.registry.PlatformByName(opts.Platform)
	if err != nil {
		return nil, engine.Wrap("resolve platform", err)
	}

	system, err := r.loadSystem(opts.SystemFile)
	if err != nil {
		return nil, engine.Wrap("load system", err)
	}
	state, err := r.loadState(opts.StateFile)
	if err != nil {
		return nil, engine.Wrap("load state", err)
	}

	integ := opts.newIntegrator()
	log.Debug("creating context")
	ctx, err := engine.NewContext(system, integ, platform, opts.Properties)
	if err != nil {
		return nil, err
	}
	defer ctx.Close()
	rep.platform(ctx.Platform().Name())

	// warm-up: first kernel launch and first force readback stay untimed
	if err := ctx.SetState(state); err != nil {
		return nil, err
	}
	if err := integ.Step(1); err != nil {
		return nil, err
	}
	if _, err := ctx.GetState(engine.StateForces); err != nil {
		return nil, err
	}

	t0 := r.now()
	if err := integ.Step(opts.Steps); err != nil {
		return nil, err
	}
	if _, err := ctx.GetState(engine.StatePositions); err != nil {
		return nil, err
	}
	elapsed := r.now().Sub(t0)

	nsPerDay := Throughput(opts.StepSize, opts.Steps, elapsed)
	rep.throughput(nsPerDay, elapsed)
	total := r.now().Sub(start)
	rep.completion(total)
	if rep.err != nil {
		return nil, engine.Wrap("write report", rep.err)
	}

	log.Info("benchmark finished: {{nsday}} ns/day", "nsday", formatFloat(nsPerDay), "elapsed", elapsed)
	return &Result{
		Steps:      opts.Steps,
		SystemFile: opts.SystemFile,
		Platform:   ctx.Platform().Name(),
		Properties: ctx.Properties(),
		StepSize:   opts.StepSize,
		NsPerDay:   nsPerDay,
		Elapsed:    elapsed,
		Total:      total,
	}, nil
}

func (r *Runner) loadSystem(path string) (*engine.System, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return nil, inputError(path, err)
	}
	defer f.Close()
	return engine.DeserializeSystem(f)
}

func (r *Runner) loadState(path string) (*engine.State, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return nil, inputError(path, err)
	}
	defer f.Close()
	return engine.DeserializeState(f)
}

func inputError(path string, err error) error {
	if errors.Is(err, vfs.ErrNotExist) {
		return fmt.Errorf("%w: %s: file not found", engine.ErrMalformedInput, path)
	}
	return fmt.Errorf("%w: %s: %v", engine.ErrMalformedInput, path, err)
}
