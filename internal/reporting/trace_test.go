package reporting_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/dfsmc/internal/core"
	"github.com/kestrelmc/dfsmc/internal/reporting"
)

func TestTraceWriter_SaveLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	w, err := reporting.NewTraceWriter(dir)
	require.NoError(t, err)

	want := reporting.RunReport{
		RunID:   "run-1",
		Outcome: "deadlock",
		Error:   "deadlock detected at state 3",
		Report: core.Report{
			UniqueStates:   5,
			BacktrackCount: 2,
			ReplayCount:    1,
			TotalVisited:   4,
		},
		TextualTrace: core.TextualTrace{"1: send(x)", "2: recv(x)"},
		RecordTrace:  core.RecordTrace{{AID: 1}, {AID: 2}},
	}
	require.NoError(t, w.Save(want))

	got, err := w.Load("run-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTraceWriter_Load_MissingRunReturnsNotExist(t *testing.T) {
	dir := t.TempDir()
	w, err := reporting.NewTraceWriter(dir)
	require.NoError(t, err)

	_, err = w.Load("does-not-exist")
	assert.Error(t, err)
}

func TestNewTraceWriter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "runs")
	_, err := reporting.NewTraceWriter(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)
}
