package graphio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/distributed-ktruss/pkg/graph"
)

// WriteEdgeList dumps edges in the format ReadEdgeList accepts, so a
// generated input can be saved and replayed.
func WriteEdgeList(path string, edges []graph.Edge) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, e := range edges {
		if _, err := fmt.Fprintf(w, "%d %d\n", e.U, e.V); err != nil {
			return fmt.Errorf("failed to write edge: %w", err)
		}
	}
	return w.Flush()
}
