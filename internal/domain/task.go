package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task belongs to its creator; assignees can read it but only the creator
// may update or delete it.
type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title"                 json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Priority    string               `bson:"priority"              json:"priority"`
	Completed   bool                 `bson:"completed"             json:"completed"`
	DueDate     *time.Time           `bson:"due_date,omitempty"    json:"dueDate,omitempty"`
	Creator     primitive.ObjectID   `bson:"creator"               json:"-"`
	AssignedTo  []primitive.ObjectID `bson:"assigned_to,omitempty" json:"-"`
	CreatedAt   time.Time            `bson:"created_at"            json:"createdAt"`
}

// ExpandedTask is a Task with creator/assignee identity summaries resolved,
// the shape every task endpoint returns.
type ExpandedTask struct {
	Task
	Creator    UserSummary   `json:"creator"`
	AssignedTo []UserSummary `json:"assignedTo"`
}

// TaskFilter carries the optional list predicates. All are AND-combined;
// Search alone matches title or description.
type TaskFilter struct {
	Search   string
	Status   string // "completed" | "incomplete" | ""
	Priority string
	DueDate  string // "overdue" | ""
}

// TaskPatch is a partial update. Nil fields are left unchanged; the field
// allowlist keeps clients away from creator and id.
type TaskPatch struct {
	Title       *string               `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	Priority    *string               `json:"priority,omitempty"`
	Completed   *bool                 `json:"completed,omitempty"`
	DueDate     *time.Time            `json:"dueDate,omitempty"`
	AssignedTo  *[]primitive.ObjectID `json:"assignedTo,omitempty"`
}
