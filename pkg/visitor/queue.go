package visitor

import (
	"fmt"

	"github.com/distributed-ktruss/pkg/graph"
)

// Queue drives one peer's share of a traversal. Locally addressed
// visitors go onto a LIFO stack, remote ones onto the wire. The queue
// owns no algorithm state; programs carry their own.
type Queue struct {
	g    *graph.Graph
	comm Comm
	prog Program

	stack []Visitor

	sent     uint64
	received uint64
}

func NewQueue(g *graph.Graph, comm Comm) *Queue {
	return &Queue{g: g, comm: comm}
}

func (q *Queue) Graph() *graph.Graph { return q.g }
func (q *Queue) Comm() Comm          { return q.comm }

// Visit queues v for eventual delivery. A visitor addressed to a
// delegate is shipped straight to its master rank: the non-master
// replica's only move is to forward, so the routing step performs it.
func (q *Queue) Visit(v Visitor) {
	if v.Target.Owner == q.comm.Rank() {
		q.stack = append(q.stack, v)
		return
	}
	q.sent++
	if err := q.comm.Send(v.Target.Owner, v); err != nil {
		// Transport failures are not recoverable at this layer.
		panic(fmt.Sprintf("visitor send to rank %d failed: %v", v.Target.Owner, err))
	}
}

// RunTraversal seeds the program's InitVisit on every local source
// (owned ordinary vertices and mastered delegates) and runs to global
// quiescence.
func (q *Queue) RunTraversal(p Program) error {
	sources := make([]graph.Locator, 0, len(q.g.Vertices())+len(q.g.Controllers()))
	sources = append(sources, q.g.Vertices()...)
	sources = append(sources, q.g.Controllers()...)
	return q.RunTraversalFrom(p, sources)
}

// RunTraversalFrom seeds InitVisit only on the given local sources and
// runs to global quiescence. An empty source list is valid; the peer
// still participates in delivery and in termination detection.
func (q *Queue) RunTraversalFrom(p Program, sources []graph.Locator) error {
	q.prog = p
	q.stack = q.stack[:0]

	for _, src := range sources {
		p.InitVisit(q, Visitor{Target: src, Init: true})
	}

	for {
		progressed := true
		for progressed {
			progressed = false
			for {
				v, ok := q.comm.TryRecv()
				if !ok {
					break
				}
				q.received++
				q.deliver(v)
				progressed = true
			}
			for len(q.stack) > 0 {
				v := q.stack[len(q.stack)-1]
				q.stack = q.stack[:len(q.stack)-1]
				q.deliver(v)
				progressed = true
			}
		}

		done, err := q.quiesce()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (q *Queue) deliver(v Visitor) {
	if q.prog.PreVisit(v) {
		q.prog.Visit(q, v)
	}
}

// quiesce is a collective check that every sent visitor has been
// received and processed. All peers sit inside the rendezvous while the
// counters are combined, so the snapshot is consistent: equal sums mean
// no visitor is queued or in flight anywhere.
func (q *Queue) quiesce() (bool, error) {
	globalSent, err := q.comm.AllReduce(ReduceSum, q.sent)
	if err != nil {
		return false, fmt.Errorf("quiescence reduce (sent): %w", err)
	}
	globalReceived, err := q.comm.AllReduce(ReduceSum, q.received)
	if err != nil {
		return false, fmt.Errorf("quiescence reduce (received): %w", err)
	}
	return globalSent == globalReceived, nil
}
