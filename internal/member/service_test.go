package member

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymcore/internal/auth"
	"gymcore/internal/logger"
)

func init() {
	logger.Init()
}

type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Create(ctx context.Context, name, email, passwordHash string, phone *string, role string) (*Member, error) {
	args := m.Called(ctx, name, email, passwordHash, phone, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockMemberRepo) FindByEmail(ctx context.Context, email string) (*Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockMemberRepo) FindByID(ctx context.Context, id int) (*Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockMemberRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepo) List(ctx context.Context) ([]Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

const testSecret = "test-secret"

func TestRegisterSuccess(t *testing.T) {
	repo := new(MockMemberRepo)
	repo.On("EmailExists", mock.Anything, "ana@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, "Ana", "ana@example.com", mock.AnythingOfType("string"), (*string)(nil), RoleMember).
		Return(&Member{ID: 1, Name: "Ana", Email: "ana@example.com", Role: RoleMember}, nil)

	svc := NewService(repo, testSecret)
	m, access, refresh, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, m.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	repo.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := new(MockMemberRepo)
	repo.On("EmailExists", mock.Anything, "ana@example.com").Return(true, nil)

	svc := NewService(repo, testSecret)
	_, _, _, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
	repo.AssertNotCalled(t, "Create",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginSuccess(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	repo := new(MockMemberRepo)
	repo.On("FindByEmail", mock.Anything, "ana@example.com").
		Return(&Member{ID: 1, Email: "ana@example.com", PasswordHash: hash, Role: RoleMember}, nil)

	svc := NewService(repo, testSecret)
	m, access, refresh, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, m.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	repo := new(MockMemberRepo)
	repo.On("FindByEmail", mock.Anything, "ana@example.com").
		Return(&Member{ID: 1, Email: "ana@example.com", PasswordHash: hash}, nil)

	svc := NewService(repo, testSecret)
	_, _, _, err = svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := new(MockMemberRepo)
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrMemberNotFound)

	svc := NewService(repo, testSecret)
	_, _, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})

	// Не раскрываем, существует ли адрес.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	repo := new(MockMemberRepo)
	repo.On("FindByID", mock.Anything, 1).
		Return(&Member{ID: 1, Email: "ana@example.com", Role: RoleMember}, nil)

	_, refresh, err := auth.GenerateTokens(1, "ana@example.com", RoleMember, testSecret, testSecret)
	require.NoError(t, err)

	svc := NewService(repo, testSecret)
	access, m, err := svc.RefreshToken(context.Background(), refresh)

	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.Equal(t, 1, m.ID)
}

func TestRefreshTokenGarbage(t *testing.T) {
	repo := new(MockMemberRepo)

	svc := NewService(repo, testSecret)
	_, _, err := svc.RefreshToken(context.Background(), "not-a-token")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
