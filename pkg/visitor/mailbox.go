package visitor

import (
	"sync"
)

// Mailbox is an unbounded FIFO of visitors arriving from other peers.
// It must never reject a message: a peer blocked in a collective cannot
// drain, and a bounded box would deadlock the traversal.
type Mailbox struct {
	mu     sync.Mutex
	queue  []Visitor
	closed bool
}

func NewMailbox() *Mailbox {
	return &Mailbox{}
}

func (m *Mailbox) Put(v Visitor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMailboxClosed
	}
	m.queue = append(m.queue, v)
	return nil
}

// TryGet pops the oldest visitor, if any. It never blocks.
func (m *Mailbox) TryGet() (Visitor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) == 0 {
		return Visitor{}, false
	}
	v := m.queue[0]
	m.queue = m.queue[1:]
	return v, true
}

func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.queue = nil
}
