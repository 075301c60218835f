package main

import (
	"context"
	"fmt"
)

// AuditQueue is the single predefined queue id.
const AuditQueue = "audit"

// Audit event kinds.
const (
	AuditBookCreated     = "book.created"
	AuditBookUpdated     = "book.updated"
	AuditBookDeleted     = "book.deleted"
	AuditCategoryCreated = "category.created"
	AuditCategoryUpdated = "category.updated"
	AuditCategoryDeleted = "category.deleted"
	AuditUserCreated     = "user.created"
	AuditUserUpdated     = "user.updated"
	AuditUserDeleted     = "user.deleted"
	AuditRolesUpdated    = "user.roles-updated"
	AuditBookLent        = "lending.lent"
	AuditBookReturned    = "lending.returned"
	AuditBookReserved    = "lending.reserved"
	AuditBookReleased    = "lending.released"
)

// AuditEvent records one catalog mutation or lending transition.
type AuditEvent struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Entity  string `json:"entity"`
	Account string `json:"account,omitempty"`
	At      string `json:"at"`
}

// Ensure *channelQueue implements Queuer.
var _ Queuer = (*channelQueue)(nil)

// Queuer describes a queue of audit events.
type Queuer interface {
	Push(ctx context.Context, qid string, event AuditEvent) error
	Pop(ctx context.Context, qid string) (AuditEvent, error)
}

// channelQueue is an in-process buffered queue. A full queue rejects
// the push instead of blocking the mutation that produced the event.
type channelQueue struct {
	events chan AuditEvent
}

func NewChannelQueue(size int) Queuer {
	return &channelQueue{events: make(chan AuditEvent, size)}
}

// Push enqueues an event onto the queue identified by qid.
func (q *channelQueue) Push(ctx context.Context, qid string, event AuditEvent) error {
	if qid != AuditQueue {
		return fmt.Errorf("queue: unknown queue id %q", qid)
	}
	select {
	case q.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("queue: %s queue is full", qid)
	}
}

// Pop returns the first dequeued event. It blocks until an event is
// available or the context is done.
func (q *channelQueue) Pop(ctx context.Context, qid string) (AuditEvent, error) {
	if qid != AuditQueue {
		return AuditEvent{}, fmt.Errorf("queue: unknown queue id %q", qid)
	}
	select {
	case event := <-q.events:
		return event, nil
	case <-ctx.Done():
		return AuditEvent{}, ctx.Err()
	}
}
