package graph

import (
	"sort"
)

// Graph is one rank's view of a delegate-partitioned undirected graph.
// Ordinary vertices live on the rank given by label modulo the peer
// count; vertices whose degree reaches the delegate threshold are
// replicated on every rank, with the modulo rank acting as master. The
// master stores the delegate's adjacency and state, replicas forward.
//
// Construction is replicated-input: every rank scans the same edge list
// and keeps its share. All ranks therefore agree on degrees and on the
// delegate set without communicating.
type Graph struct {
	rank int
	size int

	adj     map[uint64][]Locator
	degrees map[uint64]uint32

	vertices    []Locator
	controllers []Locator
	delegates   []Locator
	delegateSet map[uint64]struct{}

	numVertices uint64
	numEdges    uint64
}

// Build constructs rank's partition of the graph described by edges.
// delegateThreshold of 0 disables delegate partitioning.
func Build(edges []Edge, rank, size int, delegateThreshold uint32) *Graph {
	g := &Graph{
		rank:        rank,
		size:        size,
		adj:         make(map[uint64][]Locator),
		degrees:     make(map[uint64]uint32),
		delegateSet: make(map[uint64]struct{}),
	}

	for _, e := range edges {
		g.degrees[e.U]++
		if e.U != e.V {
			g.degrees[e.V]++
		}
	}
	g.numVertices = uint64(len(g.degrees))
	g.numEdges = uint64(len(edges))

	if delegateThreshold > 0 {
		for label, deg := range g.degrees {
			if deg >= delegateThreshold {
				g.delegateSet[label] = struct{}{}
			}
		}
	}

	for _, e := range edges {
		if e.U == e.V {
			if g.stores(e.U) {
				g.adj[e.U] = append(g.adj[e.U], g.LocatorForLabel(e.U))
			}
			continue
		}
		if g.stores(e.U) {
			g.adj[e.U] = append(g.adj[e.U], g.LocatorForLabel(e.V))
		}
		if g.stores(e.V) {
			g.adj[e.V] = append(g.adj[e.V], g.LocatorForLabel(e.U))
		}
	}
	for _, nbrs := range g.adj {
		sort.Slice(nbrs, func(i, j int) bool { return nbrs[i].Less(nbrs[j]) })
	}

	for label := range g.degrees {
		if _, isDelegate := g.delegateSet[label]; isDelegate {
			loc := g.LocatorForLabel(label)
			g.delegates = append(g.delegates, loc)
			if loc.Owner == rank {
				g.controllers = append(g.controllers, loc)
			}
		} else if g.ownerOf(label) == rank {
			g.vertices = append(g.vertices, g.LocatorForLabel(label))
		}
	}
	sort.Slice(g.vertices, func(i, j int) bool { return g.vertices[i].Less(g.vertices[j]) })
	sort.Slice(g.controllers, func(i, j int) bool { return g.controllers[i].Less(g.controllers[j]) })
	sort.Slice(g.delegates, func(i, j int) bool { return g.delegates[i].Less(g.delegates[j]) })

	return g
}

func (g *Graph) ownerOf(label uint64) int {
	return int(label % uint64(g.size))
}

// stores reports whether this rank holds the adjacency and state for
// label (owned ordinary vertex, or mastered delegate).
func (g *Graph) stores(label uint64) bool {
	return g.ownerOf(label) == g.rank
}

func (g *Graph) Rank() int { return g.rank }
func (g *Graph) Size() int { return g.size }

// NumVertices is the global vertex count.
func (g *Graph) NumVertices() uint64 { return g.numVertices }

// NumEdges is the global undirected edge count.
func (g *Graph) NumEdges() uint64 { return g.numEdges }

// NumDelegates is the global delegate count.
func (g *Graph) NumDelegates() uint64 { return uint64(len(g.delegates)) }

// Degree returns the undirected degree of v. Self-loops count once.
func (g *Graph) Degree(v Locator) uint32 {
	return g.degrees[v.Label]
}

// Edges returns the neighbors of a locally stored vertex, one entry per
// incident undirected edge, in label order.
func (g *Graph) Edges(v Locator) []Locator {
	return g.adj[v.Label]
}

// Vertices iterates the ordinary vertices owned by this rank.
func (g *Graph) Vertices() []Locator { return g.vertices }

// Controllers iterates the delegate vertices mastered by this rank.
func (g *Graph) Controllers() []Locator { return g.controllers }

// DelegateVertices iterates every delegate replica visible on this
// rank, mastered here or not.
func (g *Graph) DelegateVertices() []Locator { return g.delegates }

// LocatorToLabel recovers the stable input label of v, for logging.
func (g *Graph) LocatorToLabel(v Locator) uint64 { return v.Label }

// LocatorForLabel builds the locator for a label, resolving ownership
// and delegate status.
func (g *Graph) LocatorForLabel(label uint64) Locator {
	_, isDelegate := g.delegateSet[label]
	return Locator{Label: label, Owner: g.ownerOf(label), Delegate: isDelegate}
}

// MaxLocalDegree is the largest degree among vertices stored here.
func (g *Graph) MaxLocalDegree() uint32 {
	var max uint32
	for _, v := range g.vertices {
		if d := g.Degree(v); d > max {
			max = d
		}
	}
	for _, v := range g.controllers {
		if d := g.Degree(v); d > max {
			max = d
		}
	}
	return max
}
