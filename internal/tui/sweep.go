package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mdbench/internal/bench"
)

type caseStatus int

const (
	casePending caseStatus = iota
	caseRunning
	caseDone
	caseFailed
)

type caseStartedMsg struct{ index int }
type caseFinishedMsg struct{ outcome bench.Outcome }
type sweepDoneMsg struct{ err error }
type tickMsg time.Time

// SweepModel shows the progress of a benchmark sweep.
type SweepModel struct {
	cases    []bench.Case
	status   []caseStatus
	outcomes []bench.Outcome
	finished int
	frame    int
	done     bool
	aborted  bool
	err      error
}

func NewSweepModel(cases []bench.Case) SweepModel {
	return SweepModel{
		cases:    cases,
		status:   make([]caseStatus, len(cases)),
		outcomes: make([]bench.Outcome, len(cases)),
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m SweepModel) Init() tea.Cmd { return tick() }

func (m SweepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	case caseStartedMsg:
		if msg.index >= 0 && msg.index < len(m.status) {
			m.status[msg.index] = caseRunning
		}
	case caseFinishedMsg:
		i := msg.outcome.Index
		if i >= 0 && i < len(m.status) {
			m.outcomes[i] = msg.outcome
			if msg.outcome.Err != nil {
				m.status[i] = caseFailed
			} else {
				m.status[i] = caseDone
			}
			m.finished++
		}
	case sweepDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m SweepModel) Aborted() bool { return m.aborted }
func (m SweepModel) Done() bool    { return m.done }

func (m SweepModel) View() string {
	var b strings.Builder
	b.WriteString(Title.Render("mdbench sweep"))
	b.WriteString("\n\n")

	for i, c := range m.cases {
		var mark, detail string
		switch m.status[i] {
		case casePending:
			mark = Subtle.Render("·")
		case caseRunning:
			mark = StatusRunning.Render(Spinner(m.frame))
			detail = Subtle.Render("running")
		case caseDone:
			mark = StatusDone.Render("✓")
			detail = MetricValue.Render(fmt.Sprintf("%.4g ns/day", m.outcomes[i].Result.NsPerDay))
		case caseFailed:
			mark = StatusFailed.Render("✗")
			detail = StatusFailed.Render(m.outcomes[i].Err.Error())
		}
		fmt.Fprintf(&b, " %s %-24s %s\n", mark, c.String(), detail)
	}

	percent := 0.0
	if len(m.cases) > 0 {
		percent = float64(m.finished) / float64(len(m.cases))
	}
	fmt.Fprintf(&b, "\n %s %d/%d\n", ProgressBar(percent, 30), m.finished, len(m.cases))
	if !m.done {
		b.WriteString(KeyHint.Render(" q: stop after the current case"))
		b.WriteString("\n")
	}
	return b.String()
}

// programObserver forwards sweep progress to a running tea.Program.
type programObserver struct {
	p *tea.Program
}

func (o programObserver) CaseStarted(index int, _ bench.Case) {
	o.p.Send(caseStartedMsg{index: index})
}

func (o programObserver) CaseFinished(out bench.Outcome) {
	o.p.Send(caseFinishedMsg{outcome: out})
}

// RunSweep runs the sweep behind an interactive progress view. Quitting the
// view cancels the remaining cases.
func RunSweep(ctx context.Context, runner *bench.Runner, base bench.Options, cases []bench.Case, opts ...tea.ProgramOption) ([]bench.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewSweepModel(cases), opts...)

	type sweepResult struct {
		outcomes []bench.Outcome
		err      error
	}
	results := make(chan sweepResult, 1)
	go func() {
		outcomes, err := runner.Sweep(ctx, base, cases, programObserver{p: p})
		results <- sweepResult{outcomes: outcomes, err: err}
		p.Send(sweepDoneMsg{err: err})
	}()

	_, err := p.Run()
	cancel()
	res := <-results
	if err != nil {
		return res.outcomes, err
	}
	return res.outcomes, res.err
}

// PlainObserver prints one line per sweep event.
type PlainObserver struct {
	W io.Writer
}

func (o PlainObserver) CaseStarted(index int, c bench.Case) {
	fmt.Fprintf(o.W, "[%d] %s: running\n", index+1, c)
}

func (o PlainObserver) CaseFinished(out bench.Outcome) {
	if out.Err != nil {
		fmt.Fprintf(o.W, "[%d] %s: failed: %v\n", out.Index+1, out.Case, out.Err)
		return
	}
	fmt.Fprintf(o.W, "[%d] %s: %.4g ns/day (%s)\n", out.Index+1, out.Case, out.Result.NsPerDay, out.ReportFile)
}
