package graphio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/distributed-ktruss/pkg/graph"
)

// ReadEdgeList loads a space-separated edge list: one "u v" pair
// per line, lines starting with '#' ignored. Extra columns (weights)
// are tolerated and dropped.
func ReadEdgeList(path string) ([]graph.Edge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer file.Close()

	return parseEdgeList(file, path)
}

func parseEdgeList(r io.Reader, name string) ([]graph.Edge, error) {
	reader := csv.NewReader(r)
	reader.Comma = ' '
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var edges []graph.Edge
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		line, _ = reader.FieldPos(0)
		if len(record) == 0 || record[0] == "" {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%s line %d: need at least 2 fields, got %d", name, line, len(record))
		}
		u, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid vertex id %q", name, line, record[0])
		}
		v, err := strconv.ParseUint(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid vertex id %q", name, line, record[1])
		}
		edges = append(edges, graph.Edge{U: u, V: v})
	}
	return edges, nil
}
