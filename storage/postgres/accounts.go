package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/authkit"
	"github.com/dmitrymomot/authkit/pkg/pg"
)

const accountColumns = `id, user_id, method, provider, provider_account_id, password_hash, created_at`

func scanAccount(row pgx.Row) (*authkit.Account, error) {
	var a authkit.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Method, &a.Provider, &a.ProviderAccountID, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, authkit.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

func (s *Storage) LinkAccount(ctx context.Context, account *authkit.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, query,
		account.ID, account.UserID, account.Method, account.Provider,
		account.ProviderAccountID, account.PasswordHash, account.CreatedAt,
	)
	if err != nil {
		// Either unique index may fire: one owner per provider identity, or
		// one account per provider per user.
		if pg.IsDuplicateKeyError(err) {
			return authkit.ErrAccountAlreadyLinked
		}
		if pg.IsForeignKeyViolationError(err) {
			return authkit.ErrUserNotFound
		}
		return fmt.Errorf("link account: %w", err)
	}
	return nil
}

func (s *Storage) GetAccountByProvider(ctx context.Context, provider, providerAccountID string) (*authkit.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE provider = $1 AND provider_account_id = $2`
	return scanAccount(s.pool.QueryRow(ctx, query, provider, providerAccountID))
}

func (s *Storage) GetAccountByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*authkit.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE user_id = $1 AND provider = $2`
	return scanAccount(s.pool.QueryRow(ctx, query, userID, provider))
}

func (s *Storage) ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]*authkit.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*authkit.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *Storage) UpdateAccount(ctx context.Context, account *authkit.Account) error {
	// Provider identity is immutable; only payload fields change.
	query := `UPDATE accounts SET method = $3, password_hash = $4
		WHERE user_id = $1 AND provider = $2`

	tag, err := s.pool.Exec(ctx, query,
		account.UserID, account.Provider, account.Method, account.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authkit.ErrAccountNotFound
	}
	return nil
}

func (s *Storage) UnlinkAccount(ctx context.Context, userID uuid.UUID, provider string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM accounts WHERE user_id = $1 AND provider = $2`, userID, provider)
	if err != nil {
		return fmt.Errorf("unlink account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authkit.ErrAccountNotFound
	}
	return nil
}
