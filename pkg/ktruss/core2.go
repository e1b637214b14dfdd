package ktruss

import (
	"github.com/distributed-ktruss/pkg/visitor"
)

// reduceTo2Core peels every vertex whose degree falls below 2. On
// completion core2Degree holds, for each stored vertex, its degree
// within the 2-core: either 0 (peeled) or at least 2.
func (e *Engine) reduceTo2Core() error {
	e.alive.Reset()
	e.core2Degree.Reset()
	for _, v := range e.g.Vertices() {
		e.core2Degree.Set(v, e.g.Degree(v))
	}
	for _, v := range e.g.DelegateVertices() {
		e.core2Degree.Set(v, e.g.Degree(v))
	}
	return e.q.RunTraversal(&core2Program{e: e})
}

// core2Program is the peeling visitor. A source below degree 2 kills
// itself and sends a decrement to every neighbor; a neighbor dropping
// below 2 on receipt dies and propagates in turn. Decrements reaching
// an already-dead vertex are ignored, so reordered or duplicate
// deliveries are harmless.
type core2Program struct {
	e *Engine
}

func (p *core2Program) InitVisit(q *visitor.Queue, v visitor.Visitor) bool {
	e := p.e
	if !e.alive.Get(v.Target) {
		return false
	}
	if e.core2Degree.Get(v.Target) < 2 {
		e.alive.Set(v.Target, false)
		e.core2Degree.Set(v.Target, 0)
		for _, nbr := range e.g.Edges(v.Target) {
			q.Visit(visitor.Visitor{Target: nbr, From: v.Target})
		}
	}
	return true
}

func (p *core2Program) PreVisit(v visitor.Visitor) bool {
	e := p.e
	if !e.alive.Get(v.Target) {
		return false
	}
	deg := e.core2Degree.Get(v.Target)
	if deg == 0 {
		e.fatalf("2-core: decrement on zero counter at vertex %d", e.g.LocatorToLabel(v.Target))
	}
	deg--
	e.core2Degree.Set(v.Target, deg)
	if deg < 2 {
		e.alive.Set(v.Target, false)
		e.core2Degree.Set(v.Target, 0)
		return true
	}
	return false
}

func (p *core2Program) Visit(q *visitor.Queue, v visitor.Visitor) bool {
	e := p.e
	if e.alive.Get(v.Target) {
		e.fatalf("2-core: dead-vertex propagation reached a live vertex %d", e.g.LocatorToLabel(v.Target))
	}
	for _, nbr := range e.g.Edges(v.Target) {
		q.Visit(visitor.Visitor{Target: nbr, From: v.Target})
	}
	return true
}

var _ visitor.Program = (*core2Program)(nil)
