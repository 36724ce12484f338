package authkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/secrettoken"
)

// GetSession validates an access token and returns the caller's session
// view. Validation is purely stateless on the token side: the signature
// and registered claims are checked, then the user is re-fetched so the
// view reflects current data, not what was true at issuance. Any failure
// collapses into ErrUnauthorized.
func (e *Engine) GetSession(ctx context.Context, accessToken string) (*SessionInfo, error) {
	claims, err := e.tokens.Parse(accessToken)
	if err != nil {
		e.log.DebugContext(ctx, "access token rejected", logger.Error(err), logger.Component("session"))
		return nil, ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject())
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := e.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	info := &SessionInfo{
		User:      user,
		Claims:    claims,
		ExpiresAt: claims.ExpiresAt(),
	}

	if cb := e.callbacks.Session; cb != nil {
		shaped, err := cb(ctx, info)
		if err != nil {
			return nil, fmt.Errorf("session callback failed: %w", err)
		}
		if shaped != nil {
			info = shaped
		}
	}

	return info, nil
}

// RefreshAccessToken redeems a refresh token for a fresh access token and
// a rotated refresh token. Rotation is unconditional and atomic: when two
// requests race on the same token, exactly one succeeds and the other gets
// ErrInvalidOrExpiredToken, so a leaked token stops working the moment its
// legitimate holder refreshes.
func (e *Engine) RefreshAccessToken(ctx context.Context, refreshToken string) (*Auth, error) {
	if !e.cfg.RefreshEnabled {
		return nil, ErrRefreshTokensDisabled
	}
	if refreshToken == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	session, err := e.storage.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to get session by refresh token: %w", err)
	}

	if time.Now().After(session.RefreshExpiresAt) {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := e.storage.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to get session user: %w", err)
	}

	claims, err := e.buildClaims(ctx, user)
	if err != nil {
		return nil, err
	}
	accessToken, err := e.tokens.Generate(claims, e.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	newRefreshToken, err := secrettoken.Generate(e.cfg.SecretTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	rotated, err := e.storage.RotateSessionRefreshToken(ctx, refreshToken, newRefreshToken,
		now.Add(e.cfg.TokenTTL), now.Add(e.cfg.RefreshTokenTTL))
	if err != nil {
		// Lost the rotation race or the session vanished underneath us;
		// either way the presented token is no longer redeemable.
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return &Auth{User: user, AccessToken: accessToken, Session: rotated}, nil
}

// SignOut destroys the session identified by its opaque token and fires
// the SignOut event. Unknown tokens yield ErrSessionNotFound.
func (e *Engine) SignOut(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return ErrSessionNotFound
	}

	session, user, err := e.storage.GetSessionWithUser(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrUserNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	if err := e.storage.DeleteSession(ctx, sessionToken); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	e.fireSignOut(user, session)

	return nil
}

// SignOutAllDevices destroys every session belonging to the user and
// returns how many were revoked. Zero sessions is a success, not an error.
func (e *Engine) SignOutAllDevices(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := e.storage.DeleteUserSessions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return count, nil
}
