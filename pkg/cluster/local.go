package cluster

import (
	"sync"

	"github.com/distributed-ktruss/pkg/visitor"
)

// LocalGroup wires a fixed set of in-process peers together. Every peer
// runs on its own goroutine; messages pass through per-peer mailboxes
// and collectives rendezvous on a shared generation barrier. This is
// the comm used by the standalone binary and by tests.
type LocalGroup struct {
	size      int
	mailboxes []*visitor.Mailbox
	coll      *collective
}

func NewLocalGroup(size int) *LocalGroup {
	g := &LocalGroup{
		size:      size,
		mailboxes: make([]*visitor.Mailbox, size),
		coll:      newCollective(size),
	}
	for i := range g.mailboxes {
		g.mailboxes[i] = visitor.NewMailbox()
	}
	return g
}

func (g *LocalGroup) Size() int { return g.size }

// Comm returns the endpoint for one rank of the group.
func (g *LocalGroup) Comm(rank int) visitor.Comm {
	return &localComm{group: g, rank: rank}
}

// Close shuts every mailbox; late sends fail.
func (g *LocalGroup) Close() {
	for _, mb := range g.mailboxes {
		mb.Close()
	}
}

type localComm struct {
	group *LocalGroup
	rank  int
}

func (c *localComm) Rank() int { return c.rank }
func (c *localComm) Size() int { return c.group.size }

func (c *localComm) Send(dest int, v visitor.Visitor) error {
	if dest < 0 || dest >= c.group.size {
		return visitor.ErrUnknownPeer
	}
	return c.group.mailboxes[dest].Put(v)
}

func (c *localComm) TryRecv() (visitor.Visitor, bool) {
	return c.group.mailboxes[c.rank].TryGet()
}

func (c *localComm) Barrier() error {
	_, err := c.AllReduce(visitor.ReduceSum, 0)
	return err
}

func (c *localComm) AllReduce(op visitor.ReduceOp, value uint64) (uint64, error) {
	return c.group.coll.reduce(op, value), nil
}

// collective is a reusable rendezvous: all peers arrive with a value,
// the last arrival combines and releases the generation.
type collective struct {
	mu      sync.Mutex
	cond    *sync.Cond
	size    int
	arrived int
	acc     uint64
	result  uint64
	gen     uint64
}

func newCollective(size int) *collective {
	c := &collective{size: size}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *collective) reduce(op visitor.ReduceOp, value uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := c.gen
	if c.arrived == 0 {
		c.acc = value
	} else {
		c.acc = op.Combine(c.acc, value)
	}
	c.arrived++
	if c.arrived == c.size {
		c.result = c.acc
		c.arrived = 0
		c.gen++
		c.cond.Broadcast()
		return c.result
	}
	for gen == c.gen {
		c.cond.Wait()
	}
	return c.result
}
