// Package authkit is a storage-agnostic authentication engine for Go
// applications. It orchestrates the full account lifecycle behind a small
// set of high-level operations while delegating persistence to a pluggable
// Storage implementation and identity federation to pluggable OAuth
// providers.
//
// Supported flows:
//
//   - Registration and credential sign-in with bcrypt password hashing
//   - Password reset with single-use, time-boxed reset tokens
//   - Email verification with time-boxed verification tokens
//   - OAuth sign-in, sign-up, account linking and unlinking
//   - Stateless JWT access tokens, optionally paired with persisted
//     sessions and rotating refresh tokens
//
// # Basic usage
//
//	engine, err := authkit.New(storage, authkit.Config{
//		SigningKey: "your-secret-key",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	auth, err := engine.Register(ctx, "user@example.com", "secret-password", "Jane")
//	if err != nil {
//		// handle authkit.ErrEmailAlreadyExists, validation errors, ...
//	}
//	fmt.Println(auth.AccessToken)
//
// Later requests authenticate with the issued access token:
//
//	info, err := engine.GetSession(ctx, accessToken)
//	if err != nil {
//		// authkit.ErrUnauthorized
//	}
//	fmt.Println(info.User.Email)
//
// # Sessions and refresh tokens
//
// By default the engine is stateless: the only artifact of a sign-in is the
// signed access token. Setting Config.RefreshEnabled makes every sign-in
// persist a Session carrying an opaque refresh token. Refresh tokens are
// always rotated on use; when two requests race to redeem the same token,
// exactly one wins and the other receives ErrInvalidOrExpiredToken.
//
// # OAuth providers
//
//	engine, err := authkit.New(storage, cfg,
//		authkit.WithProviders(
//			authkit.NewGoogleProvider(googleCfg),
//			authkit.NewGitHubProvider(githubCfg),
//		),
//	)
//
// The callback handler verifies the CSRF state before touching the provider,
// then signs the user in, creating and linking accounts as needed.
//
// # Hooks
//
// Events observe completed operations and run asynchronously; their failures
// are logged and never affect the triggering call. Callbacks shape values
// the engine is about to produce (JWT claims, session info) and run
// synchronously; their errors fail the operation.
package authkit
