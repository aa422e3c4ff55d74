package repo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Mongo struct {
	Client   *mongo.Client
	DB       *mongo.Database
	colUsers *mongo.Collection
	colTasks *mongo.Collection
}

func NewMongo(ctx context.Context, uri, dbname string) (*Mongo, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := cli.Database(dbname)
	return &Mongo{
		Client:   cli,
		DB:       db,
		colUsers: db.Collection("users"),
		colTasks: db.Collection("tasks"),
	}, nil
}

func (s *Mongo) Ping(ctx context.Context) error { return s.Client.Ping(ctx, nil) }

func (s *Mongo) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := s.colUsers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			// sparse: password-only accounts have no google_id at all
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_google_id"),
		},
	})
	if err != nil {
		return err
	}

	_, err = s.colTasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "creator", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("creator_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "assigned_to", Value: 1}},
			Options: options.Index().SetName("assignee"),
		},
	})
	return err
}

func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce *mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}
