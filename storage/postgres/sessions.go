package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit"
	"github.com/dmitrymomot/authkit/pkg/pg"
)

const sessionColumns = `token, user_id, expires_at, refresh_token, refresh_expires_at, created_at`

func (s *Storage) CreateSession(ctx context.Context, session *authkit.Session) error {
	query := `INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		session.Token, session.UserID, session.ExpiresAt,
		session.RefreshToken, session.RefreshExpiresAt, session.CreatedAt,
	)
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return authkit.ErrUserNotFound
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Storage) GetSessionWithUser(ctx context.Context, sessionToken string) (*authkit.Session, *authkit.User, error) {
	query := `SELECT
		s.token, s.user_id, s.expires_at, s.refresh_token, s.refresh_expires_at, s.created_at,
		u.id, u.email, u.name, u.avatar_url, u.email_verified_at,
		u.reset_token, u.reset_token_expires_at,
		u.verification_token, u.verification_token_expires_at,
		u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`

	var (
		session authkit.Session
		user    authkit.User
	)
	err := s.pool.QueryRow(ctx, query, sessionToken).Scan(
		&session.Token, &session.UserID, &session.ExpiresAt,
		&session.RefreshToken, &session.RefreshExpiresAt, &session.CreatedAt,
		&user.ID, &user.Email, &user.Name, &user.AvatarURL, &user.EmailVerifiedAt,
		&user.ResetToken, &user.ResetTokenExpiresAt,
		&user.VerificationToken, &user.VerificationTokenExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, nil, authkit.ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("get session with user: %w", err)
	}
	return &session, &user, nil
}

func (s *Storage) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*authkit.Session, error) {
	// Sessions without refresh tokens store the empty string, so an empty
	// lookup must fail instead of matching one of them.
	if refreshToken == "" {
		return nil, authkit.ErrSessionNotFound
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE refresh_token = $1`

	var session authkit.Session
	err := s.pool.QueryRow(ctx, query, refreshToken).Scan(
		&session.Token, &session.UserID, &session.ExpiresAt,
		&session.RefreshToken, &session.RefreshExpiresAt, &session.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, authkit.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session by refresh token: %w", err)
	}
	return &session, nil
}

func (s *Storage) UpdateSession(ctx context.Context, session *authkit.Session) error {
	query := `UPDATE sessions SET
		user_id = $2, expires_at = $3, refresh_token = $4, refresh_expires_at = $5
		WHERE token = $1`

	tag, err := s.pool.Exec(ctx, query,
		session.Token, session.UserID, session.ExpiresAt,
		session.RefreshToken, session.RefreshExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authkit.ErrSessionNotFound
	}
	return nil
}

func (s *Storage) RotateSessionRefreshToken(ctx context.Context, oldToken, newToken string, expiresAt, refreshExpiresAt time.Time) (*authkit.Session, error) {
	if oldToken == "" {
		return nil, authkit.ErrSessionNotFound
	}

	// Single-statement compare-and-swap: the WHERE clause only matches while
	// oldToken is still current, so concurrent rotations of the same token
	// produce exactly one winner and the losers see no matching row.
	query := `UPDATE sessions SET
		refresh_token = $2, expires_at = $3, refresh_expires_at = $4
		WHERE refresh_token = $1
		RETURNING ` + sessionColumns

	var session authkit.Session
	err := s.pool.QueryRow(ctx, query, oldToken, newToken, expiresAt, refreshExpiresAt).Scan(
		&session.Token, &session.UserID, &session.ExpiresAt,
		&session.RefreshToken, &session.RefreshExpiresAt, &session.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, authkit.ErrSessionNotFound
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, sessionToken string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, sessionToken)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authkit.ErrSessionNotFound
	}
	return nil
}

func (s *Storage) DeleteUserSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
