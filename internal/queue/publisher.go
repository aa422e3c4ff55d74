package queue

import (
	"context"
)

type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// NoopPub stands in when no broker is configured; assignment mail still goes
// out, only the event stream is absent.
type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, key string, event any) error { return nil }
func (NoopPub) Close() error                                             { return nil }

// TaskAssigned is emitted once per recipient when a task is created with
// assignees.
type TaskAssigned struct {
	TaskID     string `json:"task_id"`
	Title      string `json:"title"`
	CreatorID  string `json:"creator_id"`
	AssigneeID string `json:"assignee_id"`
}
