package repo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hemdhoni222/todo-app/internal/domain"
)

func TestSortTasksUndatedLast(t *testing.T) {
	now := time.Now().UTC()
	d1 := now.Add(1 * time.Hour)
	d2 := now.Add(2 * time.Hour)

	mk := func(title string, due *time.Time, created time.Time) domain.ExpandedTask {
		return domain.ExpandedTask{Task: domain.Task{Title: title, DueDate: due, CreatedAt: created}}
	}

	ts := []domain.ExpandedTask{
		mk("undated-old", nil, now.Add(-2*time.Minute)),
		mk("late", &d2, now),
		mk("undated-new", nil, now.Add(-1*time.Minute)),
		mk("soon", &d1, now),
	}
	sortTasks(ts)

	want := []string{"soon", "late", "undated-new", "undated-old"}
	for i, w := range want {
		if ts[i].Title != w {
			t.Fatalf("pos %d = %s, want %s (full: %v)", i, ts[i].Title, w, titles(ts))
		}
	}
}

func TestSortTasksCreatedAtTiebreak(t *testing.T) {
	now := time.Now().UTC()
	due := now.Add(time.Hour)

	ts := []domain.ExpandedTask{
		{Task: domain.Task{Title: "older", DueDate: &due, CreatedAt: now.Add(-time.Minute)}},
		{Task: domain.Task{Title: "newer", DueDate: &due, CreatedAt: now}},
	}
	sortTasks(ts)
	if ts[0].Title != "newer" || ts[1].Title != "older" {
		t.Fatalf("tiebreak order: %v", titles(ts))
	}
}

func titles(ts []domain.ExpandedTask) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Title
	}
	return out
}

func TestMemoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	u1 := &domain.User{Name: "A", Email: "Dup@Example.com", PasswordHash: "h1"}
	if err := m.CreateUser(ctx, u1); err != nil {
		t.Fatal(err)
	}
	u2 := &domain.User{Name: "B", Email: "dup@example.com", PasswordHash: "h2"}
	if err := m.CreateUser(ctx, u2); err != ErrEmailTaken {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}

	got, err := m.FindUserByEmail(ctx, "DUP@EXAMPLE.COM")
	if err != nil || got == nil || got.PasswordHash != "h1" {
		t.Fatalf("original record changed: %v %v", got, err)
	}
}

func TestMemoryLinkGoogleAccount(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	u := &domain.User{Name: "A", Email: "a@x.com", PasswordHash: "h1"}
	if err := m.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}

	if err := m.LinkGoogleAccount(ctx, u.ID, "g-sub", "https://img.example.com/a.jpg"); err != nil {
		t.Fatal(err)
	}

	got, err := m.FindUserByGoogleID(ctx, "g-sub")
	if err != nil || got == nil {
		t.Fatalf("linked user not found by google id: %v %v", got, err)
	}
	if got.ID != u.ID {
		t.Fatalf("google id resolved a different user: %s != %s", got.ID.Hex(), u.ID.Hex())
	}
	if got.GoogleID != "g-sub" || got.Avatar != "https://img.example.com/a.jpg" {
		t.Fatalf("link did not stick: %+v", got)
	}
	if got.PasswordHash != "h1" {
		t.Fatalf("password hash changed by link: %q", got.PasswordHash)
	}
}

func TestMemoryUpdateScopedToCreator(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	creator := &domain.User{Name: "A", Email: "a@x.com", PasswordHash: "h"}
	stranger := &domain.User{Name: "B", Email: "b@x.com", PasswordHash: "h"}
	_ = m.CreateUser(ctx, creator)
	_ = m.CreateUser(ctx, stranger)

	task := &domain.Task{Title: "t", Priority: domain.PriorityMedium, Creator: creator.ID}
	_ = m.CreateTask(ctx, task)

	done := true
	if _, err := m.UpdateTask(ctx, task.ID, stranger.ID, domain.TaskPatch{Completed: &done}); err != ErrNotFound {
		t.Fatalf("stranger update: %v", err)
	}
	if err := m.DeleteTask(ctx, task.ID, stranger.ID); err != ErrNotFound {
		t.Fatalf("stranger delete: %v", err)
	}
	if _, err := m.UpdateTask(ctx, primitive.NewObjectID(), creator.ID, domain.TaskPatch{Completed: &done}); err != ErrNotFound {
		t.Fatalf("missing id: %v", err)
	}

	ex, err := m.UpdateTask(ctx, task.ID, creator.ID, domain.TaskPatch{Completed: &done})
	if err != nil || !ex.Completed {
		t.Fatalf("creator update: %v %v", ex, err)
	}
}
