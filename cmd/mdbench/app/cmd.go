package app

import (
	"fmt"
	"io"

	"github.com/mandelsoft/logging"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/san-kum/mdbench/internal/bench"
	"github.com/san-kum/mdbench/internal/engine"
)

const DefaultRecordDir = ".mdbench"

const usage = `Run: mdbench [reportFile=tmp.log] [steps=10] [platform=OpenCL,CPU,Reference] [platformIndex] [deviceIndex]
E.g.:  mdbench out.log 1000
E.g.:  mdbench out.log 1000 OpenCL 0 1
`

// App carries what the commands share: the file system reports and inputs
// live on, the platform registry and the clock used for timing.
type App struct {
	fs       vfs.FileSystem
	registry *engine.Registry
	clock    bench.Clock

	exitCode int
	flags    flags
}

type Option func(*App)

func WithFileSystem(fs vfs.FileSystem) Option {
	return func(a *App) { a.fs = fs }
}

// WithRegistry replaces the process registry. Initialize runs once per
// registry, so tests that need a clean plugin scan pass their own.
func WithRegistry(reg *engine.Registry) Option {
	return func(a *App) { a.registry = reg }
}

func WithClock(c bench.Clock) Option {
	return func(a *App) { a.clock = c }
}

var defaultRegistry = engine.NewRegistry()

func New(opts ...Option) *App {
	a := &App{
		fs:       osfs.OsFs,
		registry: defaultRegistry,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// ExitCode is the status the process should exit with after the last
// command ran.
func (a *App) ExitCode() int {
	return a.exitCode
}

func (a *App) Command() *cobra.Command {
	a.flags = flags{}

	maincmd := &cobra.Command{
		Use:   "mdbench [reportFile] [steps] [platform] [platformIndex] [deviceIndex]",
		Short: "molecular dynamics throughput benchmark",
		Long: `
Runs a fixed number of integration steps of a serialized system on the
selected platform and writes the throughput in ns/day to the report file.
`,
		Args:              cobra.MaximumNArgs(5),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setupLogging() },
		RunE:              func(cmd *cobra.Command, args []string) error { return a.runBenchmark(cmd, args) },
	}
	a.flags.addTo(maincmd)

	maincmd.AddCommand(a.newPlatforms())
	maincmd.AddCommand(a.newSweep())
	maincmd.AddCommand(a.newHistory())
	return maincmd
}

func (a *App) setupLogging() error {
	if a.flags.logLevel == "" {
		return nil
	}
	l, err := logging.ParseLevel(a.flags.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q", a.flags.logLevel)
	}
	logging.DefaultContext().AddRule(logging.NewConditionRule(l, logging.NewRealmPrefix("mdbench")))
	return nil
}

func (a *App) runner() *bench.Runner {
	opts := []bench.Option{bench.WithFileSystem(a.fs)}
	if a.clock != nil {
		opts = append(opts, bench.WithClock(a.clock))
	}
	return bench.NewRunner(a.registry, opts...)
}

// Execute runs the command line and returns the process exit status.
// Subcommand errors exit 1; benchmark failures exit with the configured
// failure code.
func Execute(args []string, stdout, stderr io.Writer, opts ...Option) int {
	a := New(opts...)
	cmd := a.Command()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err.Error())
		return 1
	}
	return a.ExitCode()
}
