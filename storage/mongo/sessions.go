package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/authkit"
)

type sessionDoc struct {
	Token            string    `bson:"_id"`
	UserID           string    `bson:"user_id"`
	ExpiresAt        time.Time `bson:"expires_at"`
	RefreshToken     string    `bson:"refresh_token"`
	RefreshExpiresAt time.Time `bson:"refresh_expires_at"`
	CreatedAt        time.Time `bson:"created_at"`
}

func toSessionDoc(s *authkit.Session) sessionDoc {
	return sessionDoc{
		Token:            s.Token,
		UserID:           s.UserID.String(),
		ExpiresAt:        s.ExpiresAt,
		RefreshToken:     s.RefreshToken,
		RefreshExpiresAt: s.RefreshExpiresAt,
		CreatedAt:        s.CreatedAt,
	}
}

func (d sessionDoc) toSession() (*authkit.Session, error) {
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse session user id: %w", err)
	}
	return &authkit.Session{
		Token:            d.Token,
		UserID:           userID,
		ExpiresAt:        d.ExpiresAt,
		RefreshToken:     d.RefreshToken,
		RefreshExpiresAt: d.RefreshExpiresAt,
		CreatedAt:        d.CreatedAt,
	}, nil
}

func (s *Storage) CreateSession(ctx context.Context, session *authkit.Session) error {
	if _, err := s.sessions.InsertOne(ctx, toSessionDoc(session)); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Storage) GetSessionWithUser(ctx context.Context, sessionToken string) (*authkit.Session, *authkit.User, error) {
	var doc sessionDoc
	if err := s.sessions.FindOne(ctx, bson.M{"_id": sessionToken}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, authkit.ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("find session: %w", err)
	}

	session, err := doc.toSession()
	if err != nil {
		return nil, nil, err
	}

	// A session whose user vanished is as good as no session.
	user, err := s.findUser(ctx, bson.M{"_id": doc.UserID})
	if err != nil {
		if errors.Is(err, authkit.ErrUserNotFound) {
			return nil, nil, authkit.ErrSessionNotFound
		}
		return nil, nil, err
	}
	return session, user, nil
}

func (s *Storage) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*authkit.Session, error) {
	// Sessions without refresh tokens store the empty string, so an empty
	// lookup must fail instead of matching one of them.
	if refreshToken == "" {
		return nil, authkit.ErrSessionNotFound
	}

	var doc sessionDoc
	if err := s.sessions.FindOne(ctx, bson.M{"refresh_token": refreshToken}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, authkit.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session by refresh token: %w", err)
	}
	return doc.toSession()
}

func (s *Storage) UpdateSession(ctx context.Context, session *authkit.Session) error {
	res, err := s.sessions.ReplaceOne(ctx, bson.M{"_id": session.Token}, toSessionDoc(session))
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if res.MatchedCount == 0 {
		return authkit.ErrSessionNotFound
	}
	return nil
}

func (s *Storage) RotateSessionRefreshToken(ctx context.Context, oldToken, newToken string, expiresAt, refreshExpiresAt time.Time) (*authkit.Session, error) {
	if oldToken == "" {
		return nil, authkit.ErrSessionNotFound
	}

	// Single findAndModify compare-and-swap: the filter only matches while
	// oldToken is still current, so concurrent rotations of the same token
	// produce exactly one winner and the losers see no matching document.
	var doc sessionDoc
	err := s.sessions.FindOneAndUpdate(ctx,
		bson.M{"refresh_token": oldToken},
		bson.M{"$set": bson.M{
			"refresh_token":      newToken,
			"expires_at":         expiresAt,
			"refresh_expires_at": refreshExpiresAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, authkit.ErrSessionNotFound
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return doc.toSession()
}

func (s *Storage) DeleteSession(ctx context.Context, sessionToken string) error {
	res, err := s.sessions.DeleteOne(ctx, bson.M{"_id": sessionToken})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return authkit.ErrSessionNotFound
	}
	return nil
}

func (s *Storage) DeleteUserSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := s.sessions.DeleteMany(ctx, bson.M{"user_id": userID.String()})
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return res.DeletedCount, nil
}
