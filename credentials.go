package authkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/sanitizer"
	"github.com/dmitrymomot/authkit/pkg/secrettoken"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

// Register creates a user with a credential account and signs them in.
// The returned Auth carries the email verification token so the caller can
// deliver the verification message; the account stays usable before
// verification.
func (e *Engine) Register(ctx context.Context, email, password, name string) (*Auth, error) {
	email = sanitizer.NormalizeEmail(email)
	if err := validator.Apply(
		validator.RequiredString("email", email),
		validator.ValidEmail("email", email),
		validator.RequiredString("password", password),
		validator.MinLenString("password", password, 8),
	); err != nil {
		return nil, err
	}

	// Pre-check the common duplicate path; storage's unique constraint
	// still covers two registrations racing past this point.
	_, err := e.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := e.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := secrettoken.Generate(e.cfg.SecretTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	verificationExpiry := time.Now().Add(e.cfg.VerificationTokenTTL)

	now := time.Now()
	user := &User{
		ID:                         uuid.New(),
		Email:                      email,
		Name:                       name,
		VerificationToken:          verificationToken,
		VerificationTokenExpiresAt: &verificationExpiry,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}
	if err := e.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	account := &Account{
		ID:                uuid.New(),
		UserID:            user.ID,
		Method:            MethodCredentials,
		Provider:          ProviderCredentials,
		ProviderAccountID: user.ID.String(),
		PasswordHash:      hash,
		CreatedAt:         now,
	}
	if err := e.storage.LinkAccount(ctx, account); err != nil {
		// Roll back the orphaned user so the email is not burned
		if deleteErr := e.storage.DeleteUser(ctx, user.ID); deleteErr != nil {
			e.log.Error("failed to clean up user after account creation failure",
				logger.UserID(user.ID.String()),
				logger.Error(deleteErr),
				logger.Component("register"),
			)
		}
		return nil, fmt.Errorf("failed to create credential account: %w", err)
	}

	e.fireCreateUser(user)

	auth, err := e.issueAuth(ctx, user)
	if err != nil {
		return nil, err
	}
	auth.VerificationToken = verificationToken
	return auth, nil
}

// SignIn authenticates a user by email and password. Every failure mode
// past basic validation collapses into ErrInvalidCredentials so callers
// cannot probe which emails are registered.
func (e *Engine) SignIn(ctx context.Context, email, password string) (*Auth, error) {
	email = sanitizer.NormalizeEmail(email)
	if err := validator.Apply(
		validator.RequiredString("email", email),
		validator.RequiredString("password", password),
	); err != nil {
		return nil, err
	}

	if err := e.allow(ctx, e.signInLimiter, "signin:"+email); err != nil {
		return nil, err
	}

	user, err := e.storage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := e.storage.GetAccountByUserAndProvider(ctx, user.ID, ProviderCredentials)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !e.hasher.Verify(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	e.fireSignIn(user)

	return e.issueAuth(ctx, user)
}

// ChangePassword updates a user's password after verifying the current
// one, then destroys every session so stolen refresh tokens die with the
// old password.
func (e *Engine) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if err := validator.Apply(
		validator.RequiredString("old_password", oldPassword),
		validator.RequiredString("new_password", newPassword),
		validator.MinLenString("new_password", newPassword, 8),
	); err != nil {
		return err
	}

	account, err := e.storage.GetAccountByUserAndProvider(ctx, userID, ProviderCredentials)
	if err != nil {
		return ErrInvalidCredentials
	}

	if !e.hasher.Verify(oldPassword, account.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	account.PasswordHash = hash
	if err := e.storage.UpdateAccount(ctx, account); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if _, err := e.storage.DeleteUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}
