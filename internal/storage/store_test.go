package storage

import (
	"testing"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/san-kum/mdbench/internal/bench"
)

func testResult(platform string, nsPerDay float64) *bench.Result {
	return &bench.Result{
		Steps:      100,
		SystemFile: "system.xml",
		Platform:   platform,
		Properties: map[string]string{"Threads": "2"},
		StepSize:   0.004,
		NsPerDay:   nsPerDay,
		Elapsed:    2 * time.Second,
		Total:      3 * time.Second,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	fs := memoryfs.New()
	st := New("runs", fs)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	opts := bench.DefaultOptions()
	opts.SystemFile = "system.xml"
	rec, err := st.Save(testResult("CPU", 12.5), opts)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if rec.ID == "" || rec.Name == "" {
		t.Errorf("expected id and name, got %q/%q", rec.ID, rec.Name)
	}

	loaded, err := st.Load(rec.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Platform != "CPU" {
		t.Errorf("expected platform CPU, got %s", loaded.Platform)
	}
	if loaded.NsPerDay != 12.5 {
		t.Errorf("expected 12.5 ns/day, got %f", loaded.NsPerDay)
	}
	if loaded.ElapsedSeconds != 2 || loaded.TotalSeconds != 3 {
		t.Errorf("unexpected times %f/%f", loaded.ElapsedSeconds, loaded.TotalSeconds)
	}
	if loaded.Properties["Threads"] != "2" {
		t.Errorf("properties lost: %v", loaded.Properties)
	}
	if loaded.Integrator != bench.IntegratorLangevinMiddle {
		t.Errorf("expected integrator %s, got %s", bench.IntegratorLangevinMiddle, loaded.Integrator)
	}
}

func TestStoreListOrder(t *testing.T) {
	fs := memoryfs.New()
	st := New("runs", fs)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(-tick) * time.Hour)
	}

	for _, p := range []string{"Reference", "CPU", "OpenCL"} {
		if _, err := st.Save(testResult(p, 1), bench.DefaultOptions()); err != nil {
			t.Fatal(err)
		}
	}

	records, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	// timestamps go backwards, so the last saved is the oldest
	if records[0].Platform != "OpenCL" || records[2].Platform != "Reference" {
		t.Errorf("unexpected order: %s, %s, %s", records[0].Platform, records[1].Platform, records[2].Platform)
	}
}

func TestStoreListSkipsBrokenRecords(t *testing.T) {
	fs := memoryfs.New()
	st := New("runs", fs)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(testResult("CPU", 1), bench.DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if err := fs.MkdirAll("runs/broken", 0755); err != nil {
		t.Fatal(err)
	}
	if err := vfs.WriteFile(fs, "runs/broken/record.json", []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New("nowhere", memoryfs.New())
	records, err := st.List()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
