// Package auth implements the OAuth session core: the credential data model,
// the token lifecycle (authorization-code exchange and refresh-on-expiry),
// the silent-login decision, and the HR profile projection.
//
// The service is stateless apart from per-identity refresh locks; all session
// data lives behind the injected CredentialStore, and all provider traffic
// goes through the injected Provider. Both are supplied at construction:
//
//	svc := auth.NewService(store, provider,
//		auth.WithLogger(log),
//		auth.WithFallbackEmail(cfg.DefaultEmail),
//	)
//
// Error contract: absence of a usable session is ErrNoSession (a decision
// branch, not a failure), provider faults wrap ErrProvider, and persistence
// faults wrap ErrStore. A rejected refresh maps to ErrNoSession because the
// caller's remediation is always re-consent.
package auth
