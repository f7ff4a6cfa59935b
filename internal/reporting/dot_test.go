package reporting_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelmc/dfsmc/internal/reporting"
)

func TestDotSink_WritesHeaderBodyAndFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.dot")
	sink, err := reporting.NewDotFile(path)
	require.NoError(t, err)

	fmt.Fprintln(sink.Writer(), `"1" -> "2" [step1];`)
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)

	assert.Contains(t, body, "digraph ExplorationGraph {")
	assert.Contains(t, body, `"1" -> "2" [step1];`)
	assert.Contains(t, body, "}\n")
}
