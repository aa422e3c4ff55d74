package repo

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hemdhoni222/todo-app/internal/domain"
)

// Memory implements Store on maps. It exists for the httptest suites and
// mirrors Mongo's behavior, including the collapsed not-found/unauthorized
// result and the duplicate-email error.
type Memory struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]domain.User
	tasks map[primitive.ObjectID]domain.Task
}

func NewMemory() *Memory {
	return &Memory{
		users: make(map[primitive.ObjectID]domain.User),
		tasks: make(map[primitive.ObjectID]domain.Task),
	}
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	email = normalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *Memory) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *Memory) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *Memory) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *Memory) CreateUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = normalizeEmail(u.Email)
	for _, ex := range m.users {
		if ex.Email == u.Email {
			return ErrEmailTaken
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) LinkGoogleAccount(ctx context.Context, id primitive.ObjectID, googleID, avatar string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	u.GoogleID = googleID
	if avatar != "" {
		u.Avatar = avatar
	}
	m.users[id] = u
	return nil
}

func (m *Memory) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.UserSummary
	for _, u := range m.users {
		out = append(out, u.Summary())
	}
	return out, nil
}

func (m *Memory) CreateTask(ctx context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now().UTC()
	m.tasks[t.ID] = *t
	return nil
}

func (m *Memory) TaskByID(ctx context.Context, id primitive.ObjectID) (*domain.ExpandedTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	ex := m.expandLocked(t)
	return &ex, nil
}

func (m *Memory) ListTasks(ctx context.Context, uid primitive.ObjectID, f domain.TaskFilter) ([]domain.ExpandedTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now().UTC()
	var out []domain.ExpandedTask
	for _, t := range m.tasks {
		if !inScope(t, uid) {
			continue
		}
		if f.Search != "" && !matchesSearch(t, f.Search) {
			continue
		}
		if (f.Status == "completed" && !t.Completed) || (f.Status == "incomplete" && t.Completed) {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.DueDate == "overdue" && (t.DueDate == nil || !t.DueDate.Before(now)) {
			continue
		}
		out = append(out, m.expandLocked(t))
	}
	sortTasks(out)
	return out, nil
}

func (m *Memory) UpdateTask(ctx context.Context, id, creator primitive.ObjectID, p domain.TaskPatch) (*domain.ExpandedTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.Creator != creator {
		return nil, ErrNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.DueDate != nil {
		d := p.DueDate.UTC()
		t.DueDate = &d
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	m.tasks[id] = t
	ex := m.expandLocked(t)
	return &ex, nil
}

func (m *Memory) DeleteTask(ctx context.Context, id, creator primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.Creator != creator {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func inScope(t domain.Task, uid primitive.ObjectID) bool {
	if t.Creator == uid {
		return true
	}
	for _, a := range t.AssignedTo {
		if a == uid {
			return true
		}
	}
	return false
}

func matchesSearch(t domain.Task, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

func (m *Memory) expandLocked(t domain.Task) domain.ExpandedTask {
	ex := domain.ExpandedTask{Task: t}
	if u, ok := m.users[t.Creator]; ok {
		ex.Creator = u.Summary()
	}
	for _, a := range t.AssignedTo {
		if u, ok := m.users[a]; ok {
			ex.AssignedTo = append(ex.AssignedTo, u.Summary())
		}
	}
	return ex
}
