package authkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/sanitizer"
	"github.com/dmitrymomot/authkit/pkg/secrettoken"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

// RequestPasswordReset generates a single-use reset token for the account
// and stores it on the user, replacing any previous pending token. The
// engine never sends email; the caller delivers the token. Unknown emails
// yield ErrUserNotFound with no further detail.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) (*PasswordResetRequest, error) {
	email = sanitizer.NormalizeEmail(email)
	if err := validator.Apply(
		validator.RequiredString("email", email),
	); err != nil {
		return nil, err
	}

	if err := e.allow(ctx, e.resetLimiter, "reset:"+email); err != nil {
		return nil, err
	}

	user, err := e.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	token, err := secrettoken.Generate(e.cfg.SecretTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset token: %w", err)
	}
	expiresAt := time.Now().Add(e.cfg.ResetTokenTTL)

	user.ResetToken = token
	user.ResetTokenExpiresAt = &expiresAt
	user.UpdatedAt = time.Now()
	if err := e.storage.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	return &PasswordResetRequest{
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ResetPassword redeems a reset token, replaces the credential password
// and signs the user in. The token is cleared on success so it cannot be
// replayed; expired or unknown tokens yield ErrInvalidOrExpiredToken.
//
// A user without a credential account (OAuth-only) gets one created here,
// which makes the reset flow double as "set a password".
func (e *Engine) ResetPassword(ctx context.Context, resetToken, newPassword string) (*Auth, error) {
	if err := validator.Apply(
		validator.RequiredString("token", resetToken),
		validator.RequiredString("password", newPassword),
		validator.MinLenString("password", newPassword, 8),
	); err != nil {
		return nil, err
	}

	user, err := e.storage.GetUserByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	if secrettoken.IsExpired(user.ResetTokenExpiresAt) {
		return nil, ErrInvalidOrExpiredToken
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := e.storage.GetAccountByUserAndProvider(ctx, user.ID, ProviderCredentials)
	switch {
	case err == nil:
		account.PasswordHash = hash
		if err := e.storage.UpdateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to update password: %w", err)
		}
	case errors.Is(err, ErrAccountNotFound):
		account = &Account{
			ID:                uuid.New(),
			UserID:            user.ID,
			Method:            MethodCredentials,
			Provider:          ProviderCredentials,
			ProviderAccountID: user.ID.String(),
			PasswordHash:      hash,
			CreatedAt:         time.Now(),
		}
		if err := e.storage.LinkAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to create credential account: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to get credential account: %w", err)
	}

	user.ResetToken = ""
	user.ResetTokenExpiresAt = nil
	user.UpdatedAt = time.Now()
	if err := e.storage.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to clear reset token: %w", err)
	}

	e.fireSignIn(user)

	return e.issueAuth(ctx, user)
}
