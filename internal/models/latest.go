package models

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Latest hands out request tickets where each new ticket cancels the one
// before it. A response is applied only if its ticket is still current.
type Latest struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Ticket identifies one superseding request.
type Ticket struct {
	ID  string
	Gen uint64
	Ctx context.Context

	owner  *Latest
	cancel context.CancelFunc
}

// Begin cancels any in-flight request and returns a ticket for a new one.
func (l *Latest) Begin(parent context.Context) *Ticket {
	ctx, cancel := context.WithCancel(parent)
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	l.cancel = cancel
	gen := l.gen
	l.mu.Unlock()
	return &Ticket{ID: uuid.NewString(), Gen: gen, Ctx: ctx, owner: l, cancel: cancel}
}

// Current reports whether no newer ticket has been issued.
func (t *Ticket) Current() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.owner.gen == t.Gen
}

// Done releases the ticket's context.
func (t *Ticket) Done() {
	t.cancel()
}

// Cancel aborts whatever request is in flight.
func (l *Latest) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}
