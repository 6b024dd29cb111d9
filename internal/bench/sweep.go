package bench

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/san-kum/mdbench/internal/engine"
)

// Case is one entry of a sweep. Properties are merged over the base options.
type Case struct {
	Platform   string
	Steps      int
	Properties engine.Properties
}

func (c Case) String() string {
	return fmt.Sprintf("%s/%d", c.Platform, c.Steps)
}

type Outcome struct {
	Index      int
	Case       Case
	ReportFile string
	Result     *Result
	Err        error
}

// Observer follows the progress of a sweep.
type Observer interface {
	CaseStarted(index int, c Case)
	CaseFinished(o Outcome)
}

// CaseReportFile derives the report file of one case from the base report
// path, e.g. tmp.log becomes tmp-CPU-100.log.
func CaseReportFile(base string, c Case) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s-%s-%d%s", stem, c.Platform, c.Steps, ext)
}

// Sweep runs the cases one after another. A failing case is recorded in its
// outcome and the sweep moves on. Cancelling ctx stops before the next case
// and returns the outcomes gathered so far with ctx.Err().
func (r *Runner) Sweep(ctx context.Context, base Options, cases []Case, obs Observer) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(cases))
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		if obs != nil {
			obs.CaseStarted(i, c)
		}

		opts := base
		opts.Platform = c.Platform
		opts.Steps = c.Steps
		opts.Properties = MergeProperties(base.Properties, c.Properties)
		opts.ReportFile = CaseReportFile(base.ReportFile, c)

		res, err := r.Run(opts)
		if err != nil {
			log.Warn("sweep case {{case}} failed", "case", c.String(), "error", err)
		}
		o := Outcome{Index: i, Case: c, ReportFile: opts.ReportFile, Result: res, Err: err}
		outcomes = append(outcomes, o)
		if obs != nil {
			obs.CaseFinished(o)
		}
	}
	return outcomes, nil
}
