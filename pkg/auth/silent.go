package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/kartiklala/prodevans-support/pkg/sanitizer"
)

// Decide performs the silent-login check. A missing email always means
// consent. Otherwise the token lifecycle decides: a valid or refreshable
// session authenticates the caller, anything else yields the consent URL.
//
// The consent URL carries no anti-forgery state parameter, so the callback
// is not tied back to the originating request. Known gap; see DESIGN.md
// before hardening.
func (s *service) Decide(ctx context.Context, email string) (Decision, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return Decision{ConsentURL: s.provider.ConsentURL()}, nil
	}

	token, err := s.ValidAccessToken(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return Decision{ConsentURL: s.provider.ConsentURL()}, nil
		}
		return Decision{}, fmt.Errorf("silent login check: %w", err)
	}

	return Decision{Authenticated: true, AccessToken: token}, nil
}
