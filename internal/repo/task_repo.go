package repo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hemdhoni222/todo-app/internal/domain"
)

func (s *Mongo) CreateTask(ctx context.Context, t *domain.Task) error {
	t.CreatedAt = time.Now().UTC()
	res, err := s.colTasks.InsertOne(ctx, t)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return nil
}

func (s *Mongo) TaskByID(ctx context.Context, id primitive.ObjectID) (*domain.ExpandedTask, error) {
	var t domain.Task
	err := s.colTasks.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ex, err := s.expand(ctx, []domain.Task{t})
	if err != nil {
		return nil, err
	}
	return &ex[0], nil
}

// ListTasks composes the optional predicates onto the mandatory
// creator-or-assignee scope. Search OR-matches title/description as an
// escaped case-insensitive substring; everything else ANDs.
func (s *Mongo) ListTasks(ctx context.Context, uid primitive.ObjectID, f domain.TaskFilter) ([]domain.ExpandedTask, error) {
	conds := bson.A{
		bson.M{"$or": bson.A{
			bson.M{"creator": uid},
			bson.M{"assigned_to": uid},
		}},
	}

	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		conds = append(conds, bson.M{"$or": bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}})
	}
	if f.Status == "completed" || f.Status == "incomplete" {
		conds = append(conds, bson.M{"completed": f.Status == "completed"})
	}
	if f.Priority != "" {
		conds = append(conds, bson.M{"priority": f.Priority})
	}
	if f.DueDate == "overdue" {
		conds = append(conds, bson.M{"due_date": bson.M{"$lt": time.Now().UTC()}})
	}

	cur, err := s.colTasks.Find(ctx, bson.M{"$and": conds},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []domain.Task
	for cur.Next(ctx) {
		var t domain.Task
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	out, err := s.expand(ctx, tasks)
	if err != nil {
		return nil, err
	}
	sortTasks(out)
	return out, nil
}

// UpdateTask applies the patch only when the task exists and the acting user
// created it; assignees get ErrNotFound like everyone else. Last write wins,
// no optimistic concurrency check.
func (s *Mongo) UpdateTask(ctx context.Context, id, creator primitive.ObjectID, p domain.TaskPatch) (*domain.ExpandedTask, error) {
	set := bson.M{}
	unset := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Priority != nil {
		set["priority"] = *p.Priority
	}
	if p.Completed != nil {
		set["completed"] = *p.Completed
	}
	if p.DueDate != nil {
		set["due_date"] = p.DueDate.UTC()
	}
	if p.AssignedTo != nil {
		if len(*p.AssignedTo) == 0 {
			unset["assigned_to"] = ""
		} else {
			set["assigned_to"] = *p.AssignedTo
		}
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(update) == 0 {
		// empty patch: still verify existence and ownership
		return s.taskForCreator(ctx, id, creator)
	}

	res := s.colTasks.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "creator": creator},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var t domain.Task
	if err := res.Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ex, err := s.expand(ctx, []domain.Task{t})
	if err != nil {
		return nil, err
	}
	return &ex[0], nil
}

func (s *Mongo) taskForCreator(ctx context.Context, id, creator primitive.ObjectID) (*domain.ExpandedTask, error) {
	var t domain.Task
	err := s.colTasks.FindOne(ctx, bson.M{"_id": id, "creator": creator}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ex, err := s.expand(ctx, []domain.Task{t})
	if err != nil {
		return nil, err
	}
	return &ex[0], nil
}

func (s *Mongo) DeleteTask(ctx context.Context, id, creator primitive.ObjectID) error {
	res, err := s.colTasks.DeleteOne(ctx, bson.M{"_id": id, "creator": creator})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// expand resolves creator and assignee summaries with a single users query
// instead of one lookup per task.
func (s *Mongo) expand(ctx context.Context, tasks []domain.Task) ([]domain.ExpandedTask, error) {
	idset := map[primitive.ObjectID]struct{}{}
	for _, t := range tasks {
		idset[t.Creator] = struct{}{}
		for _, a := range t.AssignedTo {
			idset[a] = struct{}{}
		}
	}
	ids := make([]primitive.ObjectID, 0, len(idset))
	for id := range idset {
		ids = append(ids, id)
	}
	users, err := s.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = u.Summary()
	}

	out := make([]domain.ExpandedTask, 0, len(tasks))
	for _, t := range tasks {
		ex := domain.ExpandedTask{Task: t, Creator: byID[t.Creator]}
		for _, a := range t.AssignedTo {
			if sum, ok := byID[a]; ok {
				ex.AssignedTo = append(ex.AssignedTo, sum)
			}
		}
		out = append(out, ex)
	}
	return out, nil
}
