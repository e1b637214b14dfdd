package graph

import "fmt"

// Locator identifies a vertex anywhere in the distributed graph. It is
// cheap to copy, usable as a map key, and totally ordered by label. The
// Owner field names the rank that holds the vertex's authoritative
// state; for a delegate that is the master rank, every other rank only
// holds a forwarding replica.
type Locator struct {
	Label    uint64 `json:"label"`
	Owner    int    `json:"owner"`
	Delegate bool   `json:"delegate,omitempty"`
}

func (l Locator) Less(other Locator) bool {
	return l.Label < other.Label
}

func (l Locator) Equal(other Locator) bool {
	return l.Label == other.Label
}

func (l Locator) String() string {
	if l.Delegate {
		return fmt.Sprintf("d%d/%d", l.Label, l.Owner)
	}
	return fmt.Sprintf("v%d/%d", l.Label, l.Owner)
}

// Edge is one undirected input edge. Duplicates are kept; a duplicate
// input edge contributes to degrees twice, matching the multigraph
// semantics of the generator stream.
type Edge struct {
	U uint64 `json:"u"`
	V uint64 `json:"v"`
}
