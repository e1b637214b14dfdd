// Package visitor implements the bulk traversal runtime the engine is
// programmed against. A traversal repeatedly exchanges small visitor
// records between peers until no queued or in-flight visitor remains
// anywhere; the algorithm lives entirely in the three hooks of its
// Program. Message ordering between peers is not guaranteed and
// programs must not rely on it.
package visitor

import (
	"github.com/distributed-ktruss/pkg/graph"
)

// Visitor is the unit of traversal work: a destination plus the fields
// the current program reads. One flat record serves every program; each
// traversal runs exactly one program, so no runtime tag dispatch is
// needed, and the record serializes directly for the wire.
type Visitor struct {
	Target graph.Locator `json:"target"`
	From   graph.Locator `json:"from"`
	Check  graph.Locator `json:"check"`
	Round  uint32        `json:"round,omitempty"`
	Degree uint32        `json:"degree,omitempty"`
	Init   bool          `json:"init,omitempty"`
	Close  bool          `json:"close,omitempty"`
}

// Program supplies the three hooks of one traversal.
//
// InitVisit runs once per local source when the traversal is seeded;
// it may queue visitors. PreVisit runs on the rank that stores the
// destination's state, before full delivery; returning true asks the
// runtime to invoke Visit there. Visit is the final delivery and may
// queue further visitors. The boolean results of InitVisit and Visit
// are program-specific and ignored by the runtime.
type Program interface {
	InitVisit(q *Queue, v Visitor) bool
	PreVisit(v Visitor) bool
	Visit(q *Queue, v Visitor) bool
}
