package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/kartiklala/prodevans-support/pkg/logger"
	"github.com/kartiklala/prodevans-support/pkg/sanitizer"
)

// ValidAccessToken implements the refresh-on-expiry state machine over a
// single credential. An unexpired token is returned straight from the store
// with no network call. An expired one triggers exactly one refresh attempt;
// on success the new token is persisted through the narrow UpdateToken path.
// Anything that leaves the caller without a usable token maps to ErrNoSession.
func (s *service) ValidAccessToken(ctx context.Context, email string) (string, error) {
	unlock := s.lockIdentity(email)
	defer unlock()

	cred, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("read credential: %w", err)
	}

	if s.now().Before(cred.ExpiresAt) {
		return cred.AccessToken, nil
	}

	if !cred.Refreshable() {
		return "", ErrNoSession
	}

	tok, err := s.provider.Refresh(ctx, *cred.RefreshToken)
	if err != nil {
		// Revoked or rotated refresh token. The caller's only recovery is
		// re-consent, so this is not surfaced as a provider error.
		s.logger.Warn("token refresh rejected",
			logger.Email(email),
			logger.Error(err),
			logger.Component("auth"),
		)
		return "", ErrNoSession
	}

	if err := s.store.UpdateToken(ctx, email, tok.AccessToken, tok.ExpiresAt); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}

	return tok.AccessToken, nil
}

// CompleteAuth handles the provider callback: exchanges the authorization
// code, resolves the identity, enriches the profile, and upserts the
// credential. Exchange and identity failures are fatal; enrichment failure
// is not, the record is still saved with an empty projection.
func (s *service) CompleteAuth(ctx context.Context, code string) (string, error) {
	tok, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}

	info, err := s.provider.UserInfo(ctx, tok.AccessToken)
	if err != nil {
		return "", fmt.Errorf("resolve identity: %w", err)
	}

	// Emails are document keys; normalize so one identity maps to one record.
	email := sanitizer.NormalizeEmail(info.Email)
	if email == "" {
		email = s.fallbackMail
	}

	cred := &Credential{
		Email:       email,
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.ExpiresAt,
		APIDomain:   tok.APIDomain,
		Profile: Profile{
			BasicInfo:    info,
			EmployeeForm: s.enrich(ctx, tok.AccessToken, email),
		},
	}
	if tok.RefreshToken != "" {
		cred.RefreshToken = &tok.RefreshToken
	}

	if err := s.store.Upsert(ctx, cred); err != nil {
		return "", fmt.Errorf("save credential: %w", err)
	}

	return email, nil
}
