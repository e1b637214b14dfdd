package visitor

import "errors"

var (
	ErrMailboxClosed = errors.New("mailbox is closed")

	ErrUnknownPeer = errors.New("unknown peer rank")

	ErrCommShutdown = errors.New("comm group is shut down")
)
