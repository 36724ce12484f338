package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/authkit"
	"github.com/dmitrymomot/authkit/pkg/pg"
)

const userColumns = `id, email, name, avatar_url, email_verified_at,
	reset_token, reset_token_expires_at,
	verification_token, verification_token_expires_at,
	created_at, updated_at`

func scanUser(row pgx.Row) (*authkit.User, error) {
	var u authkit.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.EmailVerifiedAt,
		&u.ResetToken, &u.ResetTokenExpiresAt,
		&u.VerificationToken, &u.VerificationTokenExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, authkit.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *Storage) CreateUser(ctx context.Context, user *authkit.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.pool.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.AvatarURL, user.EmailVerifiedAt,
		user.ResetToken, user.ResetTokenExpiresAt,
		user.VerificationToken, user.VerificationTokenExpiresAt,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return authkit.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (*authkit.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*authkit.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

func (s *Storage) GetUserByResetToken(ctx context.Context, token string) (*authkit.User, error) {
	// Users without a pending token store the empty string, so an empty
	// lookup must fail instead of matching them all.
	if token == "" {
		return nil, authkit.ErrUserNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1`
	return scanUser(s.pool.QueryRow(ctx, query, token))
}

func (s *Storage) GetUserByVerificationToken(ctx context.Context, token string) (*authkit.User, error) {
	if token == "" {
		return nil, authkit.ErrUserNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`
	return scanUser(s.pool.QueryRow(ctx, query, token))
}

func (s *Storage) UpdateUser(ctx context.Context, user *authkit.User) error {
	query := `UPDATE users SET
		email = $2, name = $3, avatar_url = $4, email_verified_at = $5,
		reset_token = $6, reset_token_expires_at = $7,
		verification_token = $8, verification_token_expires_at = $9,
		updated_at = $10
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.AvatarURL, user.EmailVerifiedAt,
		user.ResetToken, user.ResetTokenExpiresAt,
		user.VerificationToken, user.VerificationTokenExpiresAt,
		user.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return authkit.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authkit.ErrUserNotFound
	}
	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	// Accounts and sessions go with the user via ON DELETE CASCADE.
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authkit.ErrUserNotFound
	}
	return nil
}
