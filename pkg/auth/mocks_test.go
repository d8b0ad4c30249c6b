package auth

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCredentialStore is a mock implementation of CredentialStore.
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) Upsert(ctx context.Context, cred *Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCredentialStore) Get(ctx context.Context, email string) (*Credential, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Credential), args.Error(1)
}

func (m *MockCredentialStore) UpdateToken(ctx context.Context, email, accessToken string, expiresAt time.Time) error {
	args := m.Called(ctx, email, accessToken, expiresAt)
	return args.Error(0)
}

// MockProvider is a mock implementation of Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ConsentURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (TokenSet, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(TokenSet), args.Error(1)
}

func (m *MockProvider) Refresh(ctx context.Context, refreshToken string) (TokenSet, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(TokenSet), args.Error(1)
}

func (m *MockProvider) UserInfo(ctx context.Context, accessToken string) (UserInfo, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(UserInfo), args.Error(1)
}

func (m *MockProvider) EmployeeRecords(ctx context.Context, accessToken, email string) ([]EmployeeRecord, error) {
	args := m.Called(ctx, accessToken, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]EmployeeRecord), args.Error(1)
}
