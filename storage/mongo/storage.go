package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/authkit"
)

// Collection names used within the configured database.
const (
	usersCollection    = "users"
	accountsCollection = "accounts"
	sessionsCollection = "sessions"
)

// Storage is a MongoDB implementation of authkit.Storage. Uniqueness (email,
// provider identity, one provider per user) is enforced by unique indexes,
// and refresh token rotation is a single findAndModify so concurrent
// refreshes of the same token produce exactly one winner. MongoDB has no
// cascading deletes, so DeleteUser removes dependent documents explicitly.
type Storage struct {
	users    *mongo.Collection
	accounts *mongo.Collection
	sessions *mongo.Collection
}

// New creates a Storage on top of an existing database handle, typically one
// opened with pkg/mongo.NewWithDatabase.
func New(db *mongo.Database) *Storage {
	return &Storage{
		users:    db.Collection(usersCollection),
		accounts: db.Collection(accountsCollection),
		sessions: db.Collection(sessionsCollection),
	}
}

// EnsureIndexes creates the unique indexes the storage relies on. Call it
// once on startup before handing the storage to authkit.New; it is idempotent.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "reset_token", Value: 1}},
			Options: options.Index().
				SetPartialFilterExpression(bson.M{"reset_token": bson.M{"$gt": ""}}),
		},
		{
			Keys: bson.D{{Key: "verification_token", Value: 1}},
			Options: options.Index().
				SetPartialFilterExpression(bson.M{"verification_token": bson.M{"$gt": ""}}),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = s.accounts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "provider_account_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "provider", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}

	_, err = s.sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "refresh_token", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"refresh_token": bson.M{"$gt": ""}}),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create session indexes: %w", err)
	}

	return nil
}

// Compile-time interface assertion
var _ authkit.Storage = (*Storage)(nil)
