package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/mdbench/internal/bench"
	"github.com/san-kum/mdbench/internal/storage"
	"github.com/san-kum/mdbench/internal/tui"
)

type sweepFlags struct {
	platforms []string
	steps     []int
	plain     bool
}

func (a *App) newSweep() *cobra.Command {
	f := &sweepFlags{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "benchmark every combination of platforms and step counts",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return a.runSweep(cmd, f) },
	}
	flags := cmd.Flags()
	flags.StringSliceVar(&f.platforms, "platforms", []string{"Reference", "CPU"}, "platforms to run")
	flags.IntSliceVar(&f.steps, "steps", []int{bench.DefaultSteps}, "step counts to run")
	flags.BoolVar(&f.plain, "plain", false, "print plain progress lines instead of the interactive view")
	return cmd
}

func sweepCases(platforms []string, steps []int) []bench.Case {
	cases := make([]bench.Case, 0, len(platforms)*len(steps))
	for _, p := range platforms {
		for _, n := range steps {
			cases = append(cases, bench.Case{Platform: p, Steps: n})
		}
	}
	return cases
}

func (a *App) runSweep(cmd *cobra.Command, f *sweepFlags) error {
	cfg, err := a.flags.resolve(a, cmd)
	if err != nil {
		return err
	}
	if _, err := bench.Initialize(a.registry, cfg.PluginDir); err != nil {
		return err
	}

	base := cfg.Options()
	cases := sweepCases(f.platforms, f.steps)
	runner := a.runner()
	out := cmd.OutOrStdout()

	var outcomes []bench.Outcome
	if f.plain {
		outcomes, err = runner.Sweep(cmd.Context(), base, cases, tui.PlainObserver{W: out})
	} else {
		outcomes, err = tui.RunSweep(cmd.Context(), runner, base, cases,
			tea.WithOutput(out), tea.WithInput(cmd.InOrStdin()))
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	fmt.Fprintf(out, "%d of %d cases succeeded\n", len(outcomes)-failed, len(cases))

	if cfg.RecordDir != "" {
		if rerr := a.recordOutcomes(cfg.RecordDir, base, outcomes); rerr != nil {
			return rerr
		}
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		a.exitCode = cfg.FailExitCode
	}
	return nil
}

func (a *App) recordOutcomes(dir string, base bench.Options, outcomes []bench.Outcome) error {
	st := storage.New(dir, a.fs)
	if err := st.Init(); err != nil {
		return fmt.Errorf("record store: %w", err)
	}
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		opts := base
		opts.Platform = o.Case.Platform
		opts.Steps = o.Case.Steps
		opts.ReportFile = o.ReportFile
		if _, err := st.Save(o.Result, opts); err != nil {
			return fmt.Errorf("record %s: %w", o.Case, err)
		}
	}
	return nil
}
