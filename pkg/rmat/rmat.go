// Package rmat generates Graph500-style RMAT edge streams used as test
// inputs for the engine.
package rmat

import (
	"math/rand"

	"github.com/distributed-ktruss/pkg/graph"
)

// Graph500 partition probabilities and seed base.
const (
	ProbA = 0.57
	ProbB = 0.19
	ProbC = 0.19
	ProbD = 0.05

	SeedBase   = 5489
	SeedStride = 3

	DefaultEdgeFactor = 16
)

// Generator emits a deterministic RMAT edge stream over the vertex set
// [0, 2^scale).
type Generator struct {
	rng      *rand.Rand
	scale    uint32
	count    uint64
	scramble bool
}

// New creates a generator producing count edges at the given scale.
// With scramble set, vertex ids are passed through a bijective mix so
// the RMAT locality does not line up with label order.
func New(seed uint64, scale uint32, count uint64, scramble bool) *Generator {
	return &Generator{
		rng:      rand.New(rand.NewSource(int64(seed))),
		scale:    scale,
		count:    count,
		scramble: scramble,
	}
}

// Edges materialises the whole stream.
func (g *Generator) Edges() []graph.Edge {
	edges := make([]graph.Edge, 0, g.count)
	for i := uint64(0); i < g.count; i++ {
		u, v := g.next()
		edges = append(edges, graph.Edge{U: u, V: v})
	}
	return edges
}

func (g *Generator) next() (uint64, uint64) {
	var row, col uint64
	for level := uint32(0); level < g.scale; level++ {
		p := g.rng.Float64()
		switch {
		case p < ProbA:
			// upper-left quadrant, both bits zero
		case p < ProbA+ProbB:
			col |= 1 << level
		case p < ProbA+ProbB+ProbC:
			row |= 1 << level
		default:
			row |= 1 << level
			col |= 1 << level
		}
	}
	if g.scramble {
		row = g.mix(row)
		col = g.mix(col)
	}
	return row, col
}

// mix is a bijection on scale-bit integers: odd multiplications and
// xor-shifts are each invertible modulo 2^scale.
func (g *Generator) mix(x uint64) uint64 {
	mask := uint64(1)<<g.scale - 1
	x = (x * 0x9e3779b97f4a7c15) & mask
	x ^= x >> (g.scale/2 + 1)
	x = (x * 0xbf58476d1ce4e5b9) & mask
	x ^= x >> (g.scale/2 + 1)
	return x & mask
}

// Graph500Edges builds the full job input from size per-rank streams
// with seeds SeedBase + SeedStride*rank, each contributing an equal
// share of edgeFactor * 2^scale edges. Every rank can rebuild the
// identical list, which is what the replicated-input graph builder
// needs.
func Graph500Edges(scale uint32, edgeFactor uint64, size int) []graph.Edge {
	if edgeFactor == 0 {
		edgeFactor = DefaultEdgeFactor
	}
	total := edgeFactor << scale
	perRank := total / uint64(size)
	edges := make([]graph.Edge, 0, perRank*uint64(size))
	for rank := 0; rank < size; rank++ {
		gen := New(uint64(SeedBase+SeedStride*rank), scale, perRank, true)
		edges = append(edges, gen.Edges()...)
	}
	return edges
}
