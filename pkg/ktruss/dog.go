package ktruss

import (
	"github.com/distributed-ktruss/pkg/visitor"
)

// buildDOG orients every surviving undirected edge from its lower
// endpoint to its higher one under the (degree, label) order, storing
// the directed edge at the lower endpoint. Each triangle then has a
// unique lowest vertex, which is what lets the wedge sweep enumerate it
// exactly once.
func (e *Engine) buildDOG() error {
	return e.q.RunTraversal(&dogProgram{e: e})
}

// dogProgram broadcasts (self, degree) from every 2-core vertex to its
// neighbors; the receiver keeps the edge only when the sender outranks
// it, so exactly one side of each edge survives.
type dogProgram struct {
	e *Engine
}

func (p *dogProgram) InitVisit(q *visitor.Queue, v visitor.Visitor) bool {
	e := p.e
	if e.core2Degree.Get(v.Target) < 2 {
		return false
	}
	myDegree := e.g.Degree(v.Target)
	for _, nbr := range e.g.Edges(v.Target) {
		if nbr.Equal(v.Target) {
			continue
		}
		q.Visit(visitor.Visitor{Target: nbr, From: v.Target, Degree: myDegree})
	}
	return true
}

func (p *dogProgram) PreVisit(v visitor.Visitor) bool {
	e := p.e
	degree := e.g.Degree(v.Target)
	if v.Degree < degree {
		return false
	}
	if e.core2Degree.Get(v.Target) < 2 {
		return false
	}
	if v.Degree > degree || (v.Degree == degree && v.Target.Label < v.From.Label) {
		e.ensureAdj(v.Target).Set(v.From.Label, &DOGEdge{TargetDegree: v.Degree})
	}
	return false
}

func (p *dogProgram) Visit(q *visitor.Queue, v visitor.Visitor) bool {
	p.e.fatalf("DOG build: unexpected full delivery at vertex %d", p.e.g.LocatorToLabel(v.Target))
	return false
}

var _ visitor.Program = (*dogProgram)(nil)
