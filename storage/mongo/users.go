package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/authkit"
)

// userDoc is the BSON shape of an authkit.User. UUIDs are stored as their
// canonical string form to keep documents readable in the shell.
type userDoc struct {
	ID                         string     `bson:"_id"`
	Email                      string     `bson:"email"`
	Name                       string     `bson:"name"`
	AvatarURL                  string     `bson:"avatar_url"`
	EmailVerifiedAt            *time.Time `bson:"email_verified_at"`
	ResetToken                 string     `bson:"reset_token"`
	ResetTokenExpiresAt        *time.Time `bson:"reset_token_expires_at"`
	VerificationToken          string     `bson:"verification_token"`
	VerificationTokenExpiresAt *time.Time `bson:"verification_token_expires_at"`
	CreatedAt                  time.Time  `bson:"created_at"`
	UpdatedAt                  time.Time  `bson:"updated_at"`
}

func toUserDoc(u *authkit.User) userDoc {
	return userDoc{
		ID:                         u.ID.String(),
		Email:                      u.Email,
		Name:                       u.Name,
		AvatarURL:                  u.AvatarURL,
		EmailVerifiedAt:            u.EmailVerifiedAt,
		ResetToken:                 u.ResetToken,
		ResetTokenExpiresAt:        u.ResetTokenExpiresAt,
		VerificationToken:          u.VerificationToken,
		VerificationTokenExpiresAt: u.VerificationTokenExpiresAt,
		CreatedAt:                  u.CreatedAt,
		UpdatedAt:                  u.UpdatedAt,
	}
}

func (d userDoc) toUser() (*authkit.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	return &authkit.User{
		ID:                         id,
		Email:                      d.Email,
		Name:                       d.Name,
		AvatarURL:                  d.AvatarURL,
		EmailVerifiedAt:            d.EmailVerifiedAt,
		ResetToken:                 d.ResetToken,
		ResetTokenExpiresAt:        d.ResetTokenExpiresAt,
		VerificationToken:          d.VerificationToken,
		VerificationTokenExpiresAt: d.VerificationTokenExpiresAt,
		CreatedAt:                  d.CreatedAt,
		UpdatedAt:                  d.UpdatedAt,
	}, nil
}

func (s *Storage) findUser(ctx context.Context, filter bson.M) (*authkit.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, authkit.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toUser()
}

func (s *Storage) CreateUser(ctx context.Context, user *authkit.User) error {
	if _, err := s.users.InsertOne(ctx, toUserDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return authkit.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (*authkit.User, error) {
	return s.findUser(ctx, bson.M{"_id": id.String()})
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*authkit.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Storage) GetUserByResetToken(ctx context.Context, token string) (*authkit.User, error) {
	// Users without a pending token store the empty string, so an empty
	// lookup must fail instead of matching them all.
	if token == "" {
		return nil, authkit.ErrUserNotFound
	}
	return s.findUser(ctx, bson.M{"reset_token": token})
}

func (s *Storage) GetUserByVerificationToken(ctx context.Context, token string) (*authkit.User, error) {
	if token == "" {
		return nil, authkit.ErrUserNotFound
	}
	return s.findUser(ctx, bson.M{"verification_token": token})
}

func (s *Storage) UpdateUser(ctx context.Context, user *authkit.User) error {
	res, err := s.users.ReplaceOne(ctx, bson.M{"_id": user.ID.String()}, toUserDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return authkit.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return authkit.ErrUserNotFound
	}
	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return authkit.ErrUserNotFound
	}

	// No cascading deletes in MongoDB; clean up dependents explicitly.
	if _, err := s.accounts.DeleteMany(ctx, bson.M{"user_id": id.String()}); err != nil {
		return fmt.Errorf("delete user accounts: %w", err)
	}
	if _, err := s.sessions.DeleteMany(ctx, bson.M{"user_id": id.String()}); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
