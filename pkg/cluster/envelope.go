package cluster

import (
	"github.com/distributed-ktruss/pkg/visitor"
)

// Envelope is the wire frame between peers: newline-delimited JSON,
// one envelope per line. Visitor payloads ride in full; collective
// traffic carries a sequence number so peers agree on which reduction
// a value belongs to.
type Envelope struct {
	Kind    string           `json:"kind"`
	From    int              `json:"from"`
	Seq     uint64           `json:"seq,omitempty"`
	Op      string           `json:"op,omitempty"`
	Value   uint64           `json:"value,omitempty"`
	Visitor *visitor.Visitor `json:"visitor,omitempty"`
}

const (
	KindVisitor      = "visitor"
	KindReduce       = "reduce"
	KindReduceResult = "reduce_result"
)
