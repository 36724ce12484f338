package authkit

import "context"

// Provider abstracts provider-specific OAuth behavior behind a minimal,
// provider-agnostic interface. Implementations encapsulate all protocol
// details (oauth2.Config, token exchange, profile API calls) and expose
// only the primitives the engine needs.
type Provider interface {
	// ProviderID returns a stable provider identifier used for storage and
	// logging, e.g. "google", "github".
	ProviderID() string

	// AuthURL builds the provider authorization URL for the given state
	// token. Implementations may add provider-specific options (offline
	// access, prompts) without leaking them into the engine.
	AuthURL(state string) (string, error)

	// ResolveProfile performs the end-to-end flow for an authorization
	// code: exchanges the code for an access token, calls the provider's
	// profile endpoint(s) and returns a normalized Profile.
	//
	// On invalid code or token exchange failures, return ErrInvalidCode.
	// If the provider cannot produce an email, return ErrNoPrimaryEmail.
	// Email normalization is done in the engine, not here.
	ResolveProfile(ctx context.Context, code string) (Profile, error)
}

// Profile is the normalized user profile returned by a provider. The
// engine uses it to find or create the local user and to link accounts.
type Profile struct {
	// ExternalID is the provider's stable user identifier, as a string.
	// Implementations convert numeric IDs (e.g. GitHub) to string.
	ExternalID string

	// Email is the raw email returned by the provider. The engine
	// normalizes it before use.
	Email string

	// EmailVerified indicates whether the provider asserts the email is
	// verified.
	EmailVerified bool

	// Name is the display name from the provider (optional).
	Name string

	// AvatarURL is the URL to the user's avatar image (optional).
	AvatarURL string
}
