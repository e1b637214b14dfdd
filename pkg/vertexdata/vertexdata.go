// Package vertexdata holds typed per-vertex state for one rank. Each
// algorithmic quantity lives in its own map, addressed by vertex
// locator, with an explicit Reset between passes.
package vertexdata

import (
	"github.com/distributed-ktruss/pkg/graph"
)

// Data is a process-scoped map from vertex to a value of type T.
// Reads of never-written vertices return the default value.
type Data[T any] struct {
	name string
	def  T
	m    map[uint64]T
}

// New creates an empty map. name shows up in diagnostics only.
func New[T any](name string) *Data[T] {
	return &Data[T]{name: name, m: make(map[uint64]T)}
}

// NewWithDefault creates an empty map whose unwritten entries read as def.
func NewWithDefault[T any](name string, def T) *Data[T] {
	return &Data[T]{name: name, def: def, m: make(map[uint64]T)}
}

func (d *Data[T]) Name() string { return d.name }

func (d *Data[T]) Get(v graph.Locator) T {
	if val, ok := d.m[v.Label]; ok {
		return val
	}
	return d.def
}

func (d *Data[T]) Set(v graph.Locator, val T) {
	d.m[v.Label] = val
}

// Reset drops every entry; subsequent reads return the default again.
func (d *Data[T]) Reset() {
	d.m = make(map[uint64]T)
}

// Len is the number of explicitly written entries.
func (d *Data[T]) Len() int { return len(d.m) }
