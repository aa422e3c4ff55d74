package repo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hemdhoni222/todo-app/internal/domain"
)

// Emails are stored and matched lowercased; the unique index alone would
// otherwise let Foo@x.com and foo@x.com coexist.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Mongo) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Mongo) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Mongo) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Mongo) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.colUsers.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.User
	for cur.Next(ctx) {
		var u domain.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, cur.Err()
}

func (s *Mongo) CreateUser(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	u.CreatedAt = time.Now().UTC()
	res, err := s.colUsers.InsertOne(ctx, u)
	if err != nil {
		if IsDup(err) {
			return ErrEmailTaken
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (s *Mongo) LinkGoogleAccount(ctx context.Context, id primitive.ObjectID, googleID, avatar string) error {
	set := bson.M{"google_id": googleID}
	if avatar != "" {
		set["avatar"] = avatar
	}
	_, err := s.colUsers.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (s *Mongo) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	cur, err := s.colUsers.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1, "avatar": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.UserSummary
	for cur.Next(ctx) {
		var u domain.UserSummary
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, cur.Err()
}
