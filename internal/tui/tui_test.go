package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mdbench/internal/bench"
	"github.com/san-kum/mdbench/internal/storage"
)

func testCases() []bench.Case {
	return []bench.Case{
		{Platform: "Reference", Steps: 10},
		{Platform: "CPU", Steps: 100},
	}
}

func TestSweepModel_Progress(t *testing.T) {
	var m tea.Model = NewSweepModel(testCases())

	m, _ = m.Update(caseStartedMsg{index: 0})
	if s := m.(SweepModel).status[0]; s != caseRunning {
		t.Fatalf("status[0] = %v, want running", s)
	}

	m, _ = m.Update(caseFinishedMsg{outcome: bench.Outcome{
		Index:  0,
		Case:   testCases()[0],
		Result: &bench.Result{NsPerDay: 1.728},
	}})
	m, _ = m.Update(caseFinishedMsg{outcome: bench.Outcome{
		Index: 1,
		Case:  testCases()[1],
		Err:   errors.New("platform not found"),
	}})

	sm := m.(SweepModel)
	if sm.finished != 2 {
		t.Errorf("finished = %d, want 2", sm.finished)
	}
	if sm.status[0] != caseDone || sm.status[1] != caseFailed {
		t.Errorf("status = %v", sm.status)
	}

	view := sm.View()
	for _, want := range []string{"Reference/10", "CPU/100", "1.728 ns/day", "platform not found", "2/2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSweepModel_Quit(t *testing.T) {
	m := NewSweepModel(testCases())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !next.(SweepModel).Aborted() {
		t.Error("q should abort the sweep view")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}

	next, cmd = m.Update(sweepDoneMsg{})
	if !next.(SweepModel).Done() || cmd == nil {
		t.Error("sweep completion should quit the view")
	}
}

func TestSweepModel_IgnoresOutOfRange(t *testing.T) {
	var m tea.Model = NewSweepModel(testCases())
	m, _ = m.Update(caseStartedMsg{index: 5})
	m, _ = m.Update(caseFinishedMsg{outcome: bench.Outcome{Index: -1}})
	if m.(SweepModel).finished != 0 {
		t.Error("out of range outcomes must not count")
	}
}

func TestPlainObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := PlainObserver{W: &buf}
	c := testCases()[0]

	obs.CaseStarted(0, c)
	obs.CaseFinished(bench.Outcome{Index: 0, Case: c, ReportFile: "tmp-Reference-10.log", Result: &bench.Result{NsPerDay: 2}})
	obs.CaseFinished(bench.Outcome{Index: 1, Case: c, Err: errors.New("boom")})

	got := buf.String()
	want := "[1] Reference/10: running\n" +
		"[1] Reference/10: 2 ns/day (tmp-Reference-10.log)\n" +
		"[2] Reference/10: failed: boom\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProgressBar_Clamps(t *testing.T) {
	for _, p := range []float64{-1, 0, 0.5, 1, 2} {
		bar := ProgressBar(p, 10)
		if n := strings.Count(bar, "█") + strings.Count(bar, "░"); n != 10 {
			t.Errorf("ProgressBar(%v) has %d cells, want 10", p, n)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no recorded runs") {
		t.Errorf("unexpected output %q", buf.String())
	}

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	records := []storage.Record{
		{Name: "quiet-river", Timestamp: base, Platform: "CPU", Steps: 100, NsPerDay: 10},
		{Name: "bold-stone", Timestamp: base.Add(time.Hour), Platform: "CPU", Steps: 100, NsPerDay: 12},
	}
	buf.Reset()
	if err := RenderHistory(&buf, records); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"NAME", "quiet-river", "bold-stone", "2024-01-01 13:00:00", "ns/day per run"} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
}
