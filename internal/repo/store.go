package repo

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hemdhoni222/todo-app/internal/domain"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotFound covers both a missing task and a task owned by someone
	// else; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("task not found or unauthorized")
)

// Store is what the HTTP layer depends on. Mongo backs it in production,
// the memory implementation backs the handler tests.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	LinkGoogleAccount(ctx context.Context, id primitive.ObjectID, googleID, avatar string) error
	ListUsers(ctx context.Context) ([]domain.UserSummary, error)

	CreateTask(ctx context.Context, t *domain.Task) error
	TaskByID(ctx context.Context, id primitive.ObjectID) (*domain.ExpandedTask, error)
	ListTasks(ctx context.Context, uid primitive.ObjectID, f domain.TaskFilter) ([]domain.ExpandedTask, error)
	UpdateTask(ctx context.Context, id, creator primitive.ObjectID, p domain.TaskPatch) (*domain.ExpandedTask, error)
	DeleteTask(ctx context.Context, id, creator primitive.ObjectID) error

	Ping(ctx context.Context) error
}

// sortTasks orders by due date ascending with undated tasks last, newest
// created first as tiebreak. Shared by both implementations so the contract
// cannot drift: Mongo sorts missing fields first, which is the wrong end.
func sortTasks(ts []domain.ExpandedTask) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.CreatedAt.After(b.CreatedAt)
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}
