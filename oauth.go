package authkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/sanitizer"
	"github.com/dmitrymomot/authkit/pkg/secrettoken"
)

// GetAuthorizationURL starts an OAuth flow: it generates a CSRF state
// token and builds the provider's authorization URL around it. The caller
// persists the returned state (cookie, server-side store) and presents it
// to HandleCallback as the expected value.
func (e *Engine) GetAuthorizationURL(ctx context.Context, providerID string) (*AuthorizationURL, error) {
	provider, ok := e.providers[providerID]
	if !ok {
		return nil, ErrProviderNotFound
	}

	state, err := secrettoken.Generate(e.cfg.SecretTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	url, err := provider.AuthURL(state)
	if err != nil {
		return nil, fmt.Errorf("failed to build auth url: %w", err)
	}

	return &AuthorizationURL{URL: url, State: state}, nil
}

// HandleCallback completes an OAuth flow: it checks the CSRF state,
// resolves the provider profile for the authorization code and signs the
// user in, creating the user and linking the provider account as needed.
//
// The state comparison is the very first thing that happens. A mismatch
// returns ErrStateMismatch before the provider is even looked up, so a
// forged callback never triggers a token exchange. An empty expectedState
// means the caller kept no state across the redirect and skips the check.
func (e *Engine) HandleCallback(ctx context.Context, providerID, code, expectedState, receivedState string) (*Auth, error) {
	if expectedState != "" && expectedState != receivedState {
		return nil, ErrStateMismatch
	}

	provider, ok := e.providers[providerID]
	if !ok {
		return nil, ErrProviderNotFound
	}

	profile, err := provider.ResolveProfile(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return nil, ErrInvalidCode
		}
		// Allow specific errors like ErrNoPrimaryEmail to bubble up while adding context
		return nil, fmt.Errorf("failed to resolve provider profile: %w", err)
	}

	if profile.ExternalID == "" {
		return nil, fmt.Errorf("invalid profile: missing provider user ID")
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("invalid profile: missing email address")
	}

	// Normalize email centrally
	profile.Email = sanitizer.NormalizeEmail(profile.Email)

	user, isNewUser, err := e.resolveCallbackUser(ctx, provider.ProviderID(), profile)
	if err != nil {
		return nil, err
	}

	e.fireSignIn(user)

	auth, err := e.issueAuth(ctx, user)
	if err != nil {
		return nil, err
	}
	auth.IsNewUser = isNewUser
	return auth, nil
}

// resolveCallbackUser maps a provider profile onto a local user: an
// existing provider link wins, then an email match against a verified
// profile, then a fresh user is created.
func (e *Engine) resolveCallbackUser(ctx context.Context, providerID string, profile Profile) (*User, bool, error) {
	account, err := e.storage.GetAccountByProvider(ctx, providerID, profile.ExternalID)
	if err == nil {
		user, err := e.storage.GetUser(ctx, account.UserID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get linked user: %w", err)
		}
		return user, false, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, false, fmt.Errorf("failed to check oauth link: %w", err)
	}

	isNewUser := false
	user, err := e.storage.GetUserByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		// Linking by bare email match would let anyone who claims an
		// unverified address at the provider take over the local account.
		if !profile.EmailVerified {
			return nil, false, ErrUnverifiedEmail
		}
	case errors.Is(err, ErrUserNotFound):
		now := time.Now()
		user = &User{
			ID:        uuid.New(),
			Email:     profile.Email,
			Name:      profile.Name,
			AvatarURL: profile.AvatarURL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if profile.EmailVerified {
			user.EmailVerifiedAt = &now
		}
		if err := e.storage.CreateUser(ctx, user); err != nil {
			return nil, false, fmt.Errorf("failed to create user: %w", err)
		}
		isNewUser = true
	default:
		return nil, false, fmt.Errorf("failed to check existing email: %w", err)
	}

	link := &Account{
		ID:                uuid.New(),
		UserID:            user.ID,
		Method:            MethodOAuth,
		Provider:          providerID,
		ProviderAccountID: profile.ExternalID,
		CreatedAt:         time.Now(),
	}
	if err := e.storage.LinkAccount(ctx, link); err != nil {
		if isNewUser {
			// Roll back the orphaned user so the email is not burned
			if deleteErr := e.storage.DeleteUser(ctx, user.ID); deleteErr != nil {
				e.log.Error("failed to clean up user after oauth link failure",
					logger.UserID(user.ID.String()),
					logger.Error(deleteErr),
					logger.Component("oauth"),
				)
			}
		}
		return nil, false, fmt.Errorf("failed to link %s account: %w", providerID, err)
	}

	if isNewUser {
		e.fireCreateUser(user)
	}
	e.fireLinkAccount(user, link)

	return user, isNewUser, nil
}

// LinkProvider attaches an additional OAuth provider to an existing,
// already authenticated user. The code is resolved against the provider;
// if the provider identity is already claimed by a different user the call
// fails with ErrAccountAlreadyLinked. Linking the same provider identity
// to the same user twice is a no-op.
func (e *Engine) LinkProvider(ctx context.Context, userID uuid.UUID, providerID, code string) (*Account, error) {
	provider, ok := e.providers[providerID]
	if !ok {
		return nil, ErrProviderNotFound
	}

	profile, err := provider.ResolveProfile(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to resolve provider profile: %w", err)
	}
	if profile.ExternalID == "" {
		return nil, fmt.Errorf("invalid profile: missing provider user ID")
	}

	existing, err := e.storage.GetAccountByProvider(ctx, providerID, profile.ExternalID)
	if err == nil {
		if existing.UserID != userID {
			return nil, ErrAccountAlreadyLinked
		}
		// Already linked to this user, nothing to do
		return existing, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check existing oauth link: %w", err)
	}

	user, err := e.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	account := &Account{
		ID:                uuid.New(),
		UserID:            userID,
		Method:            MethodOAuth,
		Provider:          providerID,
		ProviderAccountID: profile.ExternalID,
		CreatedAt:         time.Now(),
	}
	if err := e.storage.LinkAccount(ctx, account); err != nil {
		if errors.Is(err, ErrAccountAlreadyLinked) {
			return nil, ErrAccountAlreadyLinked
		}
		return nil, fmt.Errorf("failed to link %s account: %w", providerID, err)
	}

	e.fireLinkAccount(user, account)

	return account, nil
}

// UnlinkProvider removes a provider account from a user. The last
// remaining account cannot be unlinked because it would leave the user
// with no way to sign in.
func (e *Engine) UnlinkProvider(ctx context.Context, userID uuid.UUID, providerID string) error {
	accounts, err := e.storage.ListUserAccounts(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	found := false
	for _, account := range accounts {
		if account.Provider == providerID {
			found = true
			break
		}
	}
	if !found {
		return ErrAccountNotFound
	}
	if len(accounts) == 1 {
		return ErrLastAccount
	}

	if err := e.storage.UnlinkAccount(ctx, userID, providerID); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to unlink %s account: %w", providerID, err)
	}

	e.log.InfoContext(ctx, "provider unlinked",
		logger.UserID(userID.String()),
		slog.String("provider", providerID),
		logger.Component("oauth"),
	)

	return nil
}
