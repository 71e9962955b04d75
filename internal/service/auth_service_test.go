package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/coderr-backend/internal/models"
	"github.com/ignatzorin/coderr-backend/internal/pkg/apperror"
	"github.com/ignatzorin/coderr-backend/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	args := m.Called(ctx, user, profile)
	if args.Error(0) == nil {
		user.ID = uuid.New()
		profile.UserID = user.ID
	}
	return args.Error(0)
}

func (m *mockAuthRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func testTokenManager() *TokenManager {
	return NewTokenManager("test-secret", time.Hour)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:         "ivan_petrov",
		Email:            "ivan@example.com",
		Password:         "password123",
		RepeatedPassword: "password123",
		Type:             models.ProfileTypeCustomer,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByUsername", ctx, "ivan_petrov").Return(nil, repository.ErrUserNotFound)
	repo.On("GetByEmail", ctx, "ivan@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("CreateWithProfile", ctx, mock.AnythingOfType("*models.User"), mock.AnythingOfType("*models.Profile")).Return(nil)

	result, err := svc.Register(ctx, validRegisterInput())

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ivan_petrov", result.User.Username)
	assert.Equal(t, "ivan@example.com", result.User.Email)
	assert.NotEqual(t, "password123", result.User.PasswordHash)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())

	in := validRegisterInput()
	in.RepeatedPassword = "another123"

	_, err := svc.Register(context.Background(), in)

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	repo.AssertNotCalled(t, "CreateWithProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Register_InvalidProfileType(t *testing.T) {
	svc := NewAuthService(new(mockAuthRepo), testTokenManager())

	in := validRegisterInput()
	in.Type = "admin"

	_, err := svc.Register(context.Background(), in)

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByUsername", ctx, "ivan_petrov").Return(&models.User{ID: uuid.New(), Username: "ivan_petrov"}, nil)

	_, err := svc.Register(ctx, validRegisterInput())

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	svc := NewAuthService(new(mockAuthRepo), testTokenManager())

	in := validRegisterInput()
	in.Password = "short"
	in.RepeatedPassword = "short"

	_, err := svc.Register(context.Background(), in)

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Username: "ivan_petrov", Email: "ivan@example.com", PasswordHash: string(hash)}
	repo.On("GetByUsername", ctx, "ivan_petrov").Return(user, nil)

	result, err := svc.Login(ctx, LoginInput{Username: "ivan_petrov", Password: "password123"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo.On("GetByUsername", ctx, "ivan_petrov").Return(&models.User{ID: uuid.New(), PasswordHash: string(hash)}, nil)

	_, err = svc.Login(ctx, LoginInput{Username: "ivan_petrov", Password: "wrong-pass"})

	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByUsername", ctx, "ghost").Return(nil, repository.ErrUserNotFound)

	_, err := svc.Login(ctx, LoginInput{Username: "ghost", Password: "password123"})

	// Несуществующий пользователь и неверный пароль неразличимы для клиента.
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := testTokenManager()
	user := &models.User{ID: uuid.New(), IsStaff: true}

	token, err := tm.Generate(user)
	require.NoError(t, err)

	userID, isStaff, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.True(t, isStaff)
}

func TestTokenManager_InvalidToken(t *testing.T) {
	tm := testTokenManager()

	_, _, err := tm.Parse("not-a-token")
	assert.Error(t, err)

	other := NewTokenManager("other-secret", time.Hour)
	token, err := other.Generate(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, _, err = tm.Parse(token)
	assert.Error(t, err)
}
