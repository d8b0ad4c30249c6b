package auth

import "context"

// Provider abstracts the identity provider's OAuth and HR endpoints.
// pkg/zoho carries the production implementation.
type Provider interface {
	// ConsentURL returns the authorization URL the caller is redirected to
	// when no silent login is possible. Deterministic: fixed scopes, fixed
	// redirect target, no per-call randomness.
	ConsentURL() string

	// Exchange trades an authorization code for tokens. Failures wrap
	// ErrProvider and are fatal for the current request.
	Exchange(ctx context.Context, code string) (TokenSet, error)

	// Refresh trades a refresh token for a fresh access token. The returned
	// set may carry an empty RefreshToken when the provider omits it.
	Refresh(ctx context.Context, refreshToken string) (TokenSet, error)

	// UserInfo resolves the identity behind an access token.
	UserInfo(ctx context.Context, accessToken string) (UserInfo, error)

	// EmployeeRecords fetches the HR form records matching an email.
	EmployeeRecords(ctx context.Context, accessToken, email string) ([]EmployeeRecord, error)
}
