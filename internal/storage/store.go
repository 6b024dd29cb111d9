package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/goombaio/namegenerator"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/san-kum/mdbench/internal/bench"
)

const recordFile = "record.json"

// Record is the stored summary of one benchmark run.
type Record struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Timestamp      time.Time         `json:"timestamp"`
	SystemFile     string            `json:"system"`
	StateFile      string            `json:"state"`
	Platform       string            `json:"platform"`
	Properties     map[string]string `json:"properties,omitempty"`
	Integrator     string            `json:"integrator"`
	Steps          int               `json:"steps"`
	StepSize       float64           `json:"step_size"`
	NsPerDay       float64           `json:"ns_per_day"`
	ElapsedSeconds float64           `json:"elapsed_seconds"`
	TotalSeconds   float64           `json:"total_seconds"`
}

type Store struct {
	fs      vfs.FileSystem
	baseDir string
	now     func() time.Time
	names   namegenerator.Generator
}

func New(baseDir string, fss ...vfs.FileSystem) *Store {
	var fs vfs.FileSystem = osfs.OsFs
	if len(fss) > 0 && fss[0] != nil {
		fs = fss[0]
	}
	return &Store{
		fs:      fs,
		baseDir: baseDir,
		now:     time.Now,
		names:   namegenerator.NewNameGenerator(time.Now().UnixNano()),
	}
}

func (s *Store) Init() error {
	return s.fs.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Save(res *bench.Result, opts bench.Options) (*Record, error) {
	rec := &Record{
		ID:             uuid.New().String(),
		Name:           s.names.Generate(),
		Timestamp:      s.now(),
		SystemFile:     opts.SystemFile,
		StateFile:      opts.StateFile,
		Platform:       res.Platform,
		Properties:     res.Properties,
		Integrator:     opts.Integrator,
		Steps:          res.Steps,
		StepSize:       res.StepSize,
		NsPerDay:       res.NsPerDay,
		ElapsedSeconds: res.Elapsed.Seconds(),
		TotalSeconds:   res.Total.Seconds(),
	}

	runDir := path.Join(s.baseDir, rec.ID)
	if err := s.fs.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := vfs.WriteFile(s.fs, path.Join(runDir, recordFile), data, 0644); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns all readable records, oldest first.
func (s *Store) List() ([]Record, error) {
	entries, err := vfs.ReadDir(s.fs, s.baseDir)
	if err != nil {
		if errors.Is(err, vfs.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, err
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		records = append(records, *rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

func (s *Store) Load(id string) (*Record, error) {
	data, err := vfs.ReadFile(s.fs, path.Join(s.baseDir, id, recordFile))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}
	return &rec, nil
}
