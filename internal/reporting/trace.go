package reporting

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kestrelmc/dfsmc/internal/core"
)

// RunReport is the full on-disk record of one exploration run: grounded
// directly on the teacher's JSONPersister, which the same way round-trips a
// domain value through os.MkdirAll + json.MarshalIndent + os.WriteFile.
type RunReport struct {
	RunID        string            `json:"run_id"`
	Outcome      string            `json:"outcome"` // "ok", "deadlock", "safety_violation", "non_termination", "error"
	Error        string            `json:"error,omitempty"`
	Report       core.Report       `json:"report"`
	TextualTrace core.TextualTrace `json:"textual_trace,omitempty"`
	RecordTrace  core.RecordTrace  `json:"record_trace,omitempty"`
}

// TraceWriter persists RunReport values as indented JSON files, one per run,
// named by run id.
type TraceWriter struct {
	dir string
}

// NewTraceWriter creates dir if it does not already exist.
func NewTraceWriter(dir string) (*TraceWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("reporting: mkdir %s: %w", dir, err)
	}
	return &TraceWriter{dir: dir}, nil
}

// Save writes r to "<runID>.json" under the writer's directory.
func (w *TraceWriter) Save(r RunReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("reporting: marshal run report: %w", err)
	}
	fn := filepath.Join(w.dir, r.RunID+".json")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("reporting: write %s: %w", fn, err)
	}
	return nil
}

// Load reads back a previously saved RunReport by run id, for the replay
// subcommand.
func (w *TraceWriter) Load(runID string) (RunReport, error) {
	fn := filepath.Join(w.dir, runID+".json")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RunReport{}, fmt.Errorf("reporting: run %q: %w", runID, os.ErrNotExist)
		}
		return RunReport{}, fmt.Errorf("reporting: read %s: %w", fn, err)
	}
	var r RunReport
	if err := json.Unmarshal(data, &r); err != nil {
		return RunReport{}, fmt.Errorf("reporting: unmarshal %s: %w", fn, err)
	}
	return r, nil
}
