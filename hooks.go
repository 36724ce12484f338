package authkit

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/logger"
)

// Events observe completed operations. Handlers run asynchronously on their
// own goroutine with a fresh context, detached from the request: a slow or
// panicking handler can never fail or delay the operation that fired it.
// Panics are recovered and logged.
type Events struct {
	// CreateUser fires after a user record is durably created, whether via
	// registration or a first OAuth sign-in.
	CreateUser func(ctx context.Context, user *User)

	// SignIn fires after every successful authentication: credential
	// sign-in, OAuth callback, password reset auto-login.
	SignIn func(ctx context.Context, user *User)

	// SignOut fires after a session is destroyed via SignOut.
	SignOut func(ctx context.Context, user *User, session *Session)

	// LinkAccount fires after an account is linked to a user, including
	// the implicit link on OAuth sign-up.
	LinkAccount func(ctx context.Context, user *User, account *Account)
}

// Callbacks shape values the engine is about to produce. They run
// synchronously on the request path; a callback error fails the operation.
type Callbacks struct {
	// Claims receives the default claim set before an access token is
	// signed and returns the claims to embed. Returning nil keeps the
	// defaults.
	Claims func(ctx context.Context, user *User, claims jwt.Claims) (jwt.Claims, error)

	// Session receives the decoded session view before GetSession returns
	// it. Returning nil keeps the original.
	Session func(ctx context.Context, info *SessionInfo) (*SessionInfo, error)
}

// eventTimeout bounds how long a detached event handler may run.
const eventTimeout = 10 * time.Second

// fireEvent runs fn detached from the calling request. The handler gets a
// background context with a deadline so an abandoned HTTP request cannot
// cancel side effects that already earned their trigger.
func (e *Engine) fireEvent(name string, fn func(ctx context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.log.Error("event handler panicked",
					slog.String("event", name),
					slog.Any("panic", r),
					logger.Component("authkit"),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()

		fn(ctx)
	}()
}

func (e *Engine) fireCreateUser(user *User) {
	if e.events.CreateUser == nil {
		return
	}
	e.fireEvent("create_user", func(ctx context.Context) {
		e.events.CreateUser(ctx, user)
	})
}

func (e *Engine) fireSignIn(user *User) {
	if e.events.SignIn == nil {
		return
	}
	e.fireEvent("sign_in", func(ctx context.Context) {
		e.events.SignIn(ctx, user)
	})
}

func (e *Engine) fireSignOut(user *User, session *Session) {
	if e.events.SignOut == nil {
		return
	}
	e.fireEvent("sign_out", func(ctx context.Context) {
		e.events.SignOut(ctx, user, session)
	})
}

func (e *Engine) fireLinkAccount(user *User, account *Account) {
	if e.events.LinkAccount == nil {
		return
	}
	e.fireEvent("link_account", func(ctx context.Context) {
		e.events.LinkAccount(ctx, user, account)
	})
}
