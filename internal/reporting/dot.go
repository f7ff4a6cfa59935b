package reporting

import (
	"fmt"
	"io"
	"os"
)

// DotSink wraps a file with the Graphviz digraph header/footer around the
// raw edge lines core.DFSExplorer writes via core.WithDotOutput. Modeled on
// the teacher's DefaultVisualizer, whose ExportDOT wraps a rendered body in
// the same digraph preamble.
type DotSink struct {
	f *os.File
}

// NewDotFile creates (or truncates) path and writes the digraph header.
func NewDotFile(path string) (*DotSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("reporting: create dot file %s: %w", path, err)
	}
	if _, err := fmt.Fprint(f, "digraph ExplorationGraph {\n  rankdir=LR;\n  node [shape=circle, fontsize=10];\n  edge [fontsize=9];\n"); err != nil {
		f.Close()
		return nil, fmt.Errorf("reporting: write dot header: %w", err)
	}
	return &DotSink{f: f}, nil
}

// Writer returns the io.Writer to pass to core.WithDotOutput.
func (s *DotSink) Writer() io.Writer { return s.f }

// Close writes the digraph footer and closes the file.
func (s *DotSink) Close() error {
	if _, err := fmt.Fprint(s.f, "}\n"); err != nil {
		s.f.Close()
		return fmt.Errorf("reporting: write dot footer: %w", err)
	}
	return s.f.Close()
}
