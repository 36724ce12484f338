package authkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/authkit/pkg/sanitizer"
	"github.com/dmitrymomot/authkit/pkg/secrettoken"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

// SendVerificationEmail generates a fresh email verification token for the
// user, replacing any previous pending token. The engine never sends
// email; the caller delivers the token. Already verified users get
// ErrEmailAlreadyVerified.
func (e *Engine) SendVerificationEmail(ctx context.Context, email string) (*VerificationRequest, error) {
	email = sanitizer.NormalizeEmail(email)
	if err := validator.Apply(
		validator.RequiredString("email", email),
	); err != nil {
		return nil, err
	}

	user, err := e.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.EmailVerified() {
		return nil, ErrEmailAlreadyVerified
	}

	token, err := secrettoken.Generate(e.cfg.SecretTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	expiresAt := time.Now().Add(e.cfg.VerificationTokenTTL)

	user.VerificationToken = token
	user.VerificationTokenExpiresAt = &expiresAt
	user.UpdatedAt = time.Now()
	if err := e.storage.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store verification token: %w", err)
	}

	return &VerificationRequest{
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyEmail redeems a verification token, marking the user's email as
// verified and clearing the token so it cannot be replayed. Expired or
// unknown tokens yield ErrInvalidOrExpiredToken.
func (e *Engine) VerifyEmail(ctx context.Context, verificationToken string) (*User, error) {
	if err := validator.Apply(
		validator.RequiredString("token", verificationToken),
	); err != nil {
		return nil, err
	}

	user, err := e.storage.GetUserByVerificationToken(ctx, verificationToken)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to get user by verification token: %w", err)
	}

	if secrettoken.IsExpired(user.VerificationTokenExpiresAt) {
		return nil, ErrInvalidOrExpiredToken
	}

	now := time.Now()
	user.EmailVerifiedAt = &now
	user.VerificationToken = ""
	user.VerificationTokenExpiresAt = nil
	user.UpdatedAt = now
	if err := e.storage.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}

	return user, nil
}
