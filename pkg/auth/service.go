package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Ensure service implements Authenticator.
var _ Authenticator = (*service)(nil)

// Authenticator is the full authentication surface exposed to the HTTP layer.
type Authenticator interface {
	// Decide determines whether an identity is silently authenticated or
	// must be sent to the provider consent screen.
	Decide(ctx context.Context, email string) (Decision, error)

	// ValidAccessToken returns a non-expired access token for the identity,
	// refreshing it first when necessary. Returns ErrNoSession when the
	// caller must fall back to full consent.
	ValidAccessToken(ctx context.Context, email string) (string, error)

	// CompleteAuth finishes the callback leg: code exchange, identity
	// resolution, profile enrichment, and persistence. Returns the identity
	// the front-end should be redirected with.
	CompleteAuth(ctx context.Context, code string) (string, error)
}

type service struct {
	store        CredentialStore
	provider     Provider
	logger       *slog.Logger
	now          func() time.Time
	fallbackMail string

	// Guards refresh per identity so two concurrent expired-token requests
	// cannot race each other at the provider with the same refresh token.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures the authentication service during construction.
type Option func(*service)

// WithLogger configures the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *service) {
		s.logger = l
	}
}

// WithClock overrides the time source. Used by tests; production wiring
// keeps the default.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithFallbackEmail sets the identity used when the provider's user-info
// response carries no email address.
func WithFallbackEmail(email string) Option {
	return func(s *service) {
		s.fallbackMail = email
	}
}

// NewService constructs the authentication service. The store and provider
// are injected explicitly; the service itself holds no session state beyond
// its per-identity refresh locks.
func NewService(store CredentialStore, provider Provider, opts ...Option) Authenticator {
	s := &service{
		store:    store,
		provider: provider,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lockIdentity serializes token operations for one identity and returns the
// unlock function.
func (s *service) lockIdentity(email string) func() {
	s.mu.Lock()
	l, ok := s.locks[email]
	if !ok {
		l = &sync.Mutex{}
		s.locks[email] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
