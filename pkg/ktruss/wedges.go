package ktruss

import (
	"github.com/distributed-ktruss/pkg/metrics"
	"github.com/distributed-ktruss/pkg/visitor"
)

// wedgeProgram enumerates and closes wedges. Each apex pairs up its
// directed edges (x, y) with x below y in the (degree, label) order and
// probes x: if y is also a directed neighbor of x, the triangle
// {apex, x, y} exists. The probe increments the x→y edge on the spot
// and a credit visitor carries the other two increments back to the
// apex, so every triangle adds exactly one to each of its three edges
// no matter how deliveries interleave.
type wedgeProgram struct {
	e *Engine
}

func (p *wedgeProgram) InitVisit(q *visitor.Queue, v visitor.Visitor) bool {
	e := p.e
	adj := e.adj(v.Target)
	if adj == nil || adj.Len() < 2 {
		return false
	}
	adj.Scan(func(labelA uint64, edgeA *DOGEdge) bool {
		adj.Scan(func(labelB uint64, edgeB *DOGEdge) bool {
			if edgeA.TargetDegree < edgeB.TargetDegree ||
				(edgeA.TargetDegree == edgeB.TargetDegree && labelA < labelB) {
				q.Visit(visitor.Visitor{
					Target: e.g.LocatorForLabel(labelA),
					Check:  e.g.LocatorForLabel(labelB),
					From:   v.Target,
					Close:  true,
				})
			}
			return true
		})
		return true
	})
	return false
}

func (p *wedgeProgram) PreVisit(v visitor.Visitor) bool {
	e := p.e
	if v.Close {
		e.wedgeCount++
		metrics.WedgesChecked.Inc()
		adj := e.adj(v.Target)
		if adj == nil {
			return false
		}
		edge, ok := adj.Get(v.Check.Label)
		if !ok {
			return false
		}
		e.triangleCount++
		metrics.TrianglesFound.Inc()
		edge.TriCount++
		return true
	}

	// Credit delivery at the apex: both of its wedge edges close.
	adj := e.adj(v.Target)
	var checkEdge, fromEdge *DOGEdge
	if adj != nil {
		if edge, ok := adj.Get(v.Check.Label); ok {
			checkEdge = edge
		}
		if edge, ok := adj.Get(v.From.Label); ok {
			fromEdge = edge
		}
	}
	if checkEdge == nil || fromEdge == nil {
		e.errorf("wedge credit at vertex %d references a missing edge",
			e.g.LocatorToLabel(v.Target))
		return false
	}
	checkEdge.TriCount++
	fromEdge.TriCount++
	return false
}

func (p *wedgeProgram) Visit(q *visitor.Queue, v visitor.Visitor) bool {
	if !v.Close {
		p.e.fatalf("wedge sweep: credit visitor fully delivered at vertex %d",
			p.e.g.LocatorToLabel(v.Target))
	}
	q.Visit(visitor.Visitor{
		Target: v.From,
		Check:  v.Check,
		From:   v.Target,
		Close:  false,
	})
	return false
}

var _ visitor.Program = (*wedgeProgram)(nil)
