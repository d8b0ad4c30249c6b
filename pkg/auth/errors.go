package auth

import "errors"

var (
	// ErrNoSession means the caller has no usable session: there is no stored
	// credential, the credential cannot be refreshed, or the provider rejected
	// the refresh. Every caller's recovery is the same (redirect to consent),
	// so refresh failure is deliberately folded into this error instead of
	// being surfaced as a provider error.
	ErrNoSession = errors.New("no active session")

	// ErrCredentialNotFound is returned by the store when no credential
	// exists for an identity. Absence is a valid branch, not a failure.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrProvider marks a failed call to the identity provider: non-2xx
	// status, malformed body, or timeout. Fatal for the current request,
	// never retried.
	ErrProvider = errors.New("identity provider request failed")

	// ErrStore marks an unavailable persistence layer.
	ErrStore = errors.New("credential store unavailable")
)
