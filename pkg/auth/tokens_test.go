package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestService_ValidAccessToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("no record means no session", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider, WithClock(clock))

		store.On("Get", mock.Anything, "ghost@prodevans.com").Return(nil, ErrCredentialNotFound)

		_, err := svc.ValidAccessToken(context.Background(), "ghost@prodevans.com")
		require.ErrorIs(t, err, ErrNoSession)

		provider.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("unexpired token is returned without any provider call", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider, WithClock(clock))

		store.On("Get", mock.Anything, "alice@prodevans.com").Return(&Credential{
			Email:       "alice@prodevans.com",
			AccessToken: "cached-token",
			ExpiresAt:   now.Add(30 * time.Minute),
		}, nil)

		token, err := svc.ValidAccessToken(context.Background(), "alice@prodevans.com")
		require.NoError(t, err)
		assert.Equal(t, "cached-token", token)

		provider.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "UpdateToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("expired token triggers exactly one refresh and persists it", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider, WithClock(clock))

		newExpiry := now.Add(time.Hour)
		store.On("Get", mock.Anything, "bob@prodevans.com").Return(&Credential{
			Email:        "bob@prodevans.com",
			AccessToken:  "stale-token",
			RefreshToken: strPtr("refresh-1"),
			ExpiresAt:    now.Add(-time.Minute),
		}, nil)
		provider.On("Refresh", mock.Anything, "refresh-1").Return(TokenSet{
			AccessToken: "fresh-token",
			ExpiresAt:   newExpiry,
		}, nil).Once()
		store.On("UpdateToken", mock.Anything, "bob@prodevans.com", "fresh-token", newExpiry).Return(nil).Once()

		token, err := svc.ValidAccessToken(context.Background(), "bob@prodevans.com")
		require.NoError(t, err)
		assert.Equal(t, "fresh-token", token)

		store.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("token exactly at expiry is treated as expired", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider, WithClock(clock))

		store.On("Get", mock.Anything, "edge@prodevans.com").Return(&Credential{
			Email:       "edge@prodevans.com",
			AccessToken: "stale-token",
			ExpiresAt:   now,
		}, nil)

		_, err := svc.ValidAccessToken(context.Background(), "edge@prodevans.com")
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("rejected refresh folds into no session and leaves the record alone", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider, WithClock(clock))

		store.On("Get", mock.Anything, "carol@prodevans.com").Return(&Credential{
			Email:        "carol@prodevans.com",
			AccessToken:  "stale-token",
			RefreshToken: strPtr("revoked"),
			ExpiresAt:    now.Add(-time.Hour),
		}, nil)
		provider.On("Refresh", mock.Anything, "revoked").
			Return(TokenSet{}, errors.Join(ErrProvider, errors.New("invalid_code"))).Once()

		_, err := svc.ValidAccessToken(context.Background(), "carol@prodevans.com")
		require.ErrorIs(t, err, ErrNoSession)

		store.AssertNotCalled(t, "UpdateToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		provider.AssertExpectations(t)
	})

	t.Run("expired record without refresh token cannot be renewed", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider, WithClock(clock))

		store.On("Get", mock.Anything, "dave@prodevans.com").Return(&Credential{
			Email:       "dave@prodevans.com",
			AccessToken: "stale-token",
			ExpiresAt:   now.Add(-time.Hour),
		}, nil)

		_, err := svc.ValidAccessToken(context.Background(), "dave@prodevans.com")
		require.ErrorIs(t, err, ErrNoSession)

		provider.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	})

	t.Run("store failure surfaces as an error, not as no session", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider, WithClock(clock))

		store.On("Get", mock.Anything, "erin@prodevans.com").
			Return(nil, errors.Join(ErrStore, errors.New("connection reset")))

		_, err := svc.ValidAccessToken(context.Background(), "erin@prodevans.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoSession)
		assert.ErrorIs(t, err, ErrStore)
	})
}

// memStore is a stateful in-memory store used to exercise the per-identity
// refresh serialization, which mock call assertions cannot observe.
type memStore struct {
	mu    sync.Mutex
	creds map[string]*Credential
}

func newMemStore(creds ...*Credential) *memStore {
	s := &memStore{creds: make(map[string]*Credential)}
	for _, c := range creds {
		cc := *c
		s.creds[c.Email] = &cc
	}
	return s
}

func (s *memStore) Upsert(_ context.Context, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cc := *cred
	s.creds[cred.Email] = &cc
	return nil
}

func (s *memStore) Get(_ context.Context, email string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[email]
	if !ok {
		return nil, ErrCredentialNotFound
	}
	cc := *cred
	return &cc, nil
}

func (s *memStore) UpdateToken(_ context.Context, email, accessToken string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[email]
	if !ok {
		return ErrCredentialNotFound
	}
	cred.AccessToken = accessToken
	cred.ExpiresAt = expiresAt
	return nil
}

// countingProvider refreshes successfully and counts how often.
type countingProvider struct {
	MockProvider
	refreshes atomic.Int32
	expiry    time.Time
}

func (p *countingProvider) Refresh(_ context.Context, _ string) (TokenSet, error) {
	p.refreshes.Add(1)
	time.Sleep(5 * time.Millisecond) // widen the race window
	return TokenSet{AccessToken: "fresh-token", ExpiresAt: p.expiry}, nil
}

func TestService_ConcurrentRefreshIsSerialized(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore(&Credential{
		Email:        "race@prodevans.com",
		AccessToken:  "stale-token",
		RefreshToken: strPtr("refresh-1"),
		ExpiresAt:    now.Add(-time.Minute),
	})
	provider := &countingProvider{expiry: now.Add(time.Hour)}
	svc := NewService(store, provider, WithClock(func() time.Time { return now }))

	var wg sync.WaitGroup
	tokens := make([]string, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens[i], errs[i] = svc.ValidAccessToken(context.Background(), "race@prodevans.com")
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, "fresh-token", tokens[0])
	assert.Equal(t, "fresh-token", tokens[1])

	// The second caller must observe the refreshed record instead of
	// spending the same refresh token again.
	assert.Equal(t, int32(1), provider.refreshes.Load())
}

func TestService_CompleteAuth(t *testing.T) {
	t.Parallel()

	t.Run("persists tokens, identity, and enriched profile", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider)

		expiry := time.Now().Add(time.Hour)
		provider.On("Exchange", mock.Anything, "validcode").Return(TokenSet{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresAt:    expiry,
			APIDomain:    "https://people.zoho.in",
		}, nil).Once()
		provider.On("UserInfo", mock.Anything, "access-1").Return(UserInfo{
			Email:     "kartik.lala@prodevans.com",
			FirstName: "Kartik",
		}, nil).Once()
		provider.On("EmployeeRecords", mock.Anything, "access-1", "kartik.lala@prodevans.com").
			Return([]EmployeeRecord{{
				FirstName:   "Kartik",
				Department:  "Support",
				ReportingTo: "manager@prodevans.com",
				EmployeeID:  "PD-042",
			}}, nil).Once()

		var saved *Credential
		store.On("Upsert", mock.Anything, mock.AnythingOfType("*auth.Credential")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*Credential) }).
			Return(nil).Once()

		email, err := svc.CompleteAuth(context.Background(), "validcode")
		require.NoError(t, err)
		assert.Equal(t, "kartik.lala@prodevans.com", email)

		require.NotNil(t, saved)
		assert.Equal(t, "access-1", saved.AccessToken)
		require.NotNil(t, saved.RefreshToken)
		assert.Equal(t, "refresh-1", *saved.RefreshToken)
		assert.Equal(t, expiry, saved.ExpiresAt)
		assert.Equal(t, "https://people.zoho.in", saved.APIDomain)
		assert.Equal(t, "Kartik", saved.Profile.BasicInfo.FirstName)
		assert.Equal(t, "Support", saved.Profile.EmployeeForm.Department)
		assert.Equal(t, "manager@prodevans.com", saved.Profile.EmployeeForm.Manager)
		assert.Equal(t, "PD-042", saved.Profile.EmployeeForm.Pmail)

		store.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("exchange failure is fatal and nothing is saved", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider)

		provider.On("Exchange", mock.Anything, "badcode").
			Return(TokenSet{}, errors.Join(ErrProvider, errors.New("invalid_code"))).Once()

		_, err := svc.CompleteAuth(context.Background(), "badcode")
		require.ErrorIs(t, err, ErrProvider)

		store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("enrichment failure does not block persistence", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider)

		provider.On("Exchange", mock.Anything, "validcode").Return(TokenSet{
			AccessToken: "access-1",
			ExpiresAt:   time.Now().Add(time.Hour),
		}, nil).Once()
		provider.On("UserInfo", mock.Anything, "access-1").
			Return(UserInfo{Email: "alice@prodevans.com"}, nil).Once()
		provider.On("EmployeeRecords", mock.Anything, "access-1", "alice@prodevans.com").
			Return(nil, errors.Join(ErrProvider, errors.New("status 500"))).Once()

		var saved *Credential
		store.On("Upsert", mock.Anything, mock.AnythingOfType("*auth.Credential")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*Credential) }).
			Return(nil).Once()

		email, err := svc.CompleteAuth(context.Background(), "validcode")
		require.NoError(t, err)
		assert.Equal(t, "alice@prodevans.com", email)

		require.NotNil(t, saved)
		assert.True(t, saved.Profile.EmployeeForm.IsZero())

		store.AssertExpectations(t)
	})

	t.Run("missing refresh token stays nil so the store keeps the old one", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider)

		provider.On("Exchange", mock.Anything, "validcode").Return(TokenSet{
			AccessToken: "access-2",
			ExpiresAt:   time.Now().Add(time.Hour),
		}, nil).Once()
		provider.On("UserInfo", mock.Anything, "access-2").
			Return(UserInfo{Email: "bob@prodevans.com"}, nil).Once()
		provider.On("EmployeeRecords", mock.Anything, "access-2", "bob@prodevans.com").
			Return([]EmployeeRecord{}, nil).Once()

		var saved *Credential
		store.On("Upsert", mock.Anything, mock.AnythingOfType("*auth.Credential")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*Credential) }).
			Return(nil).Once()

		_, err := svc.CompleteAuth(context.Background(), "validcode")
		require.NoError(t, err)

		require.NotNil(t, saved)
		assert.Nil(t, saved.RefreshToken)
		assert.False(t, saved.Refreshable())
	})

	t.Run("falls back to the configured email when the provider has none", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider, WithFallbackEmail("fallback@prodevans.com"))

		provider.On("Exchange", mock.Anything, "validcode").Return(TokenSet{
			AccessToken: "access-3",
			ExpiresAt:   time.Now().Add(time.Hour),
		}, nil).Once()
		provider.On("UserInfo", mock.Anything, "access-3").Return(UserInfo{}, nil).Once()
		provider.On("EmployeeRecords", mock.Anything, "access-3", "fallback@prodevans.com").
			Return([]EmployeeRecord{}, nil).Once()
		store.On("Upsert", mock.Anything, mock.AnythingOfType("*auth.Credential")).Return(nil).Once()

		email, err := svc.CompleteAuth(context.Background(), "validcode")
		require.NoError(t, err)
		assert.Equal(t, "fallback@prodevans.com", email)
	})

	t.Run("user info failure is fatal", func(t *testing.T) {
		t.Parallel()

		store := &MockCredentialStore{}
		provider := &MockProvider{}
		svc := NewService(store, provider)

		provider.On("Exchange", mock.Anything, "validcode").Return(TokenSet{
			AccessToken: "access-4",
			ExpiresAt:   time.Now().Add(time.Hour),
		}, nil).Once()
		provider.On("UserInfo", mock.Anything, "access-4").
			Return(UserInfo{}, errors.Join(ErrProvider, errors.New("status 401"))).Once()

		_, err := svc.CompleteAuth(context.Background(), "validcode")
		require.ErrorIs(t, err, ErrProvider)

		store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
