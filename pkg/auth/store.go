package auth

import (
	"context"
	"time"
)

// CredentialStore defines the persistence operations the service needs.
// Implementations must be safe for concurrent use.
type CredentialStore interface {
	// Upsert creates the credential if absent, otherwise merges the given
	// fields into the existing document. Must be atomic per identity.
	// A nil RefreshToken leaves any previously stored refresh token in place.
	Upsert(ctx context.Context, cred *Credential) error

	// Get returns the credential for an identity, or ErrCredentialNotFound.
	Get(ctx context.Context, email string) (*Credential, error)

	// UpdateToken replaces only the access token and its expiry. It must not
	// touch the refresh token, profile, or API domain.
	UpdateToken(ctx context.Context, email, accessToken string, expiresAt time.Time) error
}
