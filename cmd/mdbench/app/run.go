package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/san-kum/mdbench/internal/bench"
	"github.com/san-kum/mdbench/internal/config"
	"github.com/san-kum/mdbench/internal/storage"
)

// runBenchmark never returns the benchmark failure to cobra. The diagnostic
// and the usage hint go to standard output and the exit status follows the
// configured failure code.
func (a *App) runBenchmark(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := a.flags.resolve(a, cmd)
	if err != nil {
		a.fail(out, cfg, err)
		return nil
	}
	applyPositional(cfg, args)

	if _, err := bench.Initialize(a.registry, cfg.PluginDir); err != nil {
		a.fail(out, cfg, err)
		return nil
	}

	opts := cfg.Options()
	res, err := a.runner().Run(opts)
	if err != nil {
		a.fail(out, cfg, err)
		return nil
	}
	a.exitCode = 0

	if cfg.RecordDir != "" {
		st := storage.New(cfg.RecordDir, a.fs)
		if err := st.Init(); err != nil {
			return fmt.Errorf("record store: %w", err)
		}
		rec, err := st.Save(res, opts)
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		log.Info("recorded run {{name}}", "name", rec.Name, "id", rec.ID)
	}
	return nil
}

func (a *App) fail(w io.Writer, cfg *config.Config, err error) {
	fmt.Fprintf(w, "benchmark failed: %s\n\n%s", err.Error(), usage)
	a.exitCode = config.DefaultFailExitCode
	if cfg != nil {
		a.exitCode = cfg.FailExitCode
	}
}
