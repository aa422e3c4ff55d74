package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account record. At least one of PasswordHash or GoogleID is set:
// password registrations carry a hash, Google sign-ins carry the provider sub.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name"                    json:"name"`
	Email        string             `bson:"email"                   json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	GoogleID     string             `bson:"google_id,omitempty"     json:"-"`
	Avatar       string             `bson:"avatar,omitempty"        json:"avatar,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"              json:"created_at"`
}

// UserSummary is the projection exposed on task expansion and the
// assignee picker. Never carries credentials.
type UserSummary struct {
	ID     primitive.ObjectID `bson:"_id"              json:"id"`
	Name   string             `bson:"name"             json:"name"`
	Email  string             `bson:"email"            json:"email"`
	Avatar string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}
