package userbase_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/calposa/userbase"
)

// MockUsers implements userbase.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id uuid.UUID) (*userbase.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*userbase.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*userbase.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*userbase.User)
	return user, args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, record *userbase.User) (*userbase.User, error) {
	args := m.Called(ctx, record)
	user, _ := args.Get(0).(*userbase.User)
	return user, args.Error(1)
}

func (m *MockUsers) UpdateFields(ctx context.Context, id uuid.UUID, patch *userbase.UserPatch) (*userbase.User, error) {
	args := m.Called(ctx, id, patch)
	user, _ := args.Get(0).(*userbase.User)
	return user, args.Error(1)
}

func (m *MockUsers) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUsers) List(ctx context.Context, query *userbase.UsersQuery) ([]*userbase.User, int, error) {
	args := m.Called(ctx, query)
	users, _ := args.Get(0).([]*userbase.User)
	return users, args.Int(1), args.Error(2)
}

func (m *MockUsers) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUsers) Stats(ctx context.Context) (*userbase.UserStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*userbase.UserStats)
	return stats, args.Error(1)
}

// testConfig implements userbase.Config
type testConfig struct {
	production bool
}

func (c testConfig) GetSigningKey() string   { return "test-signing-key" }
func (c testConfig) GetTokenExpiration() int { return 24 }
func (c testConfig) GetIssuer() string       { return "userbase-test" }
func (c testConfig) GetAudience() []string   { return nil }
func (c testConfig) GetCookieName() string   { return "authToken" }
func (c testConfig) IsProduction() bool      { return c.production }
