package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/coderr-backend/internal/models"
	"github.com/ignatzorin/coderr-backend/internal/pkg/apperror"
	"github.com/ignatzorin/coderr-backend/internal/repository"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockProfileRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockProfileRepo) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileRepo) ListProfilesByType(ctx context.Context, profileType string) ([]models.Profile, error) {
	args := m.Called(ctx, profileType)
	return args.Get(0).([]models.Profile), args.Error(1)
}

func TestProfileService_SetProfileFile_Success(t *testing.T) {
	repo := new(mockProfileRepo)
	svc := NewProfileService(repo)
	ctx := context.Background()

	ownerID := uuid.New()
	repo.On("GetProfile", ctx, ownerID).Return(&models.Profile{UserID: ownerID, Type: models.ProfileTypeCustomer}, nil)
	repo.On("UpdateProfile", ctx, mock.AnythingOfType("*models.Profile")).Return(nil)

	saved := false
	profile, err := svc.SetProfileFile(ctx, ownerID, false, ownerID, func(context.Context) (string, error) {
		saved = true
		return "media/avatar.png", nil
	})

	require.NoError(t, err)
	assert.True(t, saved)
	require.NotNil(t, profile.File)
	assert.Equal(t, "media/avatar.png", *profile.File)
	repo.AssertExpectations(t)
}

func TestProfileService_SetProfileFile_StrangerDenied(t *testing.T) {
	repo := new(mockProfileRepo)
	svc := NewProfileService(repo)
	ctx := context.Background()

	ownerID := uuid.New()
	actorID := uuid.New()
	repo.On("GetProfile", ctx, ownerID).Return(&models.Profile{UserID: ownerID, Type: models.ProfileTypeCustomer}, nil)
	repo.On("GetProfile", ctx, actorID).Return(&models.Profile{UserID: actorID, Type: models.ProfileTypeCustomer}, nil)

	// Отказ не должен оставлять файла в хранилище: запись выполняется
	// только после проверки владельца.
	saved := false
	_, err := svc.SetProfileFile(ctx, actorID, false, ownerID, func(context.Context) (string, error) {
		saved = true
		return "media/avatar.png", nil
	})

	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.False(t, saved)
	repo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}

func TestProfileService_UpdateProfile_EmailTaken(t *testing.T) {
	repo := new(mockProfileRepo)
	svc := NewProfileService(repo)
	ctx := context.Background()

	ownerID := uuid.New()
	repo.On("GetProfile", ctx, ownerID).Return(&models.Profile{UserID: ownerID, Type: models.ProfileTypeBusiness}, nil)
	repo.On("UpdateProfile", ctx, mock.AnythingOfType("*models.Profile")).Return(repository.ErrEmailTaken)

	email := "taken@example.com"
	_, err := svc.UpdateProfile(ctx, ownerID, false, ownerID, ProfileUpdateInput{Email: &email})

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestProfileService_UpdateProfile_StrangerDenied(t *testing.T) {
	repo := new(mockProfileRepo)
	svc := NewProfileService(repo)
	ctx := context.Background()

	ownerID := uuid.New()
	actorID := uuid.New()
	repo.On("GetProfile", ctx, ownerID).Return(&models.Profile{UserID: ownerID, Type: models.ProfileTypeCustomer}, nil)
	repo.On("GetProfile", ctx, actorID).Return(&models.Profile{UserID: actorID, Type: models.ProfileTypeCustomer}, nil)

	name := "Пётр"
	_, err := svc.UpdateProfile(ctx, actorID, false, ownerID, ProfileUpdateInput{FirstName: &name})

	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}
