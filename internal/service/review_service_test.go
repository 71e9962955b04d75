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

type mockReviewStore struct {
	mock.Mock
}

func (m *mockReviewStore) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	if args.Error(0) == nil {
		review.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockReviewStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewStore) ExistsByPair(ctx context.Context, businessUserID, reviewerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, businessUserID, reviewerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewStore) List(ctx context.Context, params repository.ReviewListParams) ([]models.Review, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewStore) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	store := new(mockReviewStore)
	profiles := new(mockProfiles)
	svc := NewReviewService(store, profiles)
	ctx := context.Background()

	reviewerID := uuid.New()
	businessID := uuid.New()

	profiles.On("GetProfile", ctx, businessID).Return(&models.Profile{UserID: businessID, Type: models.ProfileTypeBusiness}, nil)
	profiles.On("GetProfile", ctx, reviewerID).Return(&models.Profile{UserID: reviewerID, Type: models.ProfileTypeCustomer}, nil)
	store.On("ExistsByPair", ctx, businessID, reviewerID).Return(false, nil)
	store.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(nil)

	review, err := svc.CreateReview(ctx, reviewerID, false, ReviewCreateInput{
		BusinessUserID: businessID,
		Rating:         5,
		Description:    "Отличная работа!",
	})

	require.NoError(t, err)
	assert.Equal(t, businessID, review.BusinessUserID)
	assert.Equal(t, reviewerID, review.ReviewerID)
	assert.Equal(t, 5, review.Rating)
	store.AssertExpectations(t)
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	store := new(mockReviewStore)
	profiles := new(mockProfiles)
	svc := NewReviewService(store, profiles)
	ctx := context.Background()

	reviewerID := uuid.New()
	businessID := uuid.New()

	profiles.On("GetProfile", ctx, businessID).Return(&models.Profile{UserID: businessID, Type: models.ProfileTypeBusiness}, nil)
	profiles.On("GetProfile", ctx, reviewerID).Return(&models.Profile{UserID: reviewerID, Type: models.ProfileTypeCustomer}, nil)
	store.On("ExistsByPair", ctx, businessID, reviewerID).Return(true, nil)

	_, err := svc.CreateReview(ctx, reviewerID, false, ReviewCreateInput{
		BusinessUserID: businessID,
		Rating:         4,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewService_CreateReview_RaceCaughtByConstraint(t *testing.T) {
	store := new(mockReviewStore)
	profiles := new(mockProfiles)
	svc := NewReviewService(store, profiles)
	ctx := context.Background()

	reviewerID := uuid.New()
	businessID := uuid.New()

	profiles.On("GetProfile", ctx, businessID).Return(&models.Profile{UserID: businessID, Type: models.ProfileTypeBusiness}, nil)
	profiles.On("GetProfile", ctx, reviewerID).Return(&models.Profile{UserID: reviewerID, Type: models.ProfileTypeCustomer}, nil)
	// Предварительная проверка не видит дубликат, но вставка натыкается
	// на уникальное ограничение.
	store.On("ExistsByPair", ctx, businessID, reviewerID).Return(false, nil)
	store.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(repository.ErrDuplicateReview)

	_, err := svc.CreateReview(ctx, reviewerID, false, ReviewCreateInput{
		BusinessUserID: businessID,
		Rating:         3,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestReviewService_CreateReview_BusinessActorForbidden(t *testing.T) {
	store := new(mockReviewStore)
	profiles := new(mockProfiles)
	svc := NewReviewService(store, profiles)
	ctx := context.Background()

	reviewerID := uuid.New()
	businessID := uuid.New()

	profiles.On("GetProfile", ctx, businessID).Return(&models.Profile{UserID: businessID, Type: models.ProfileTypeBusiness}, nil)
	profiles.On("GetProfile", ctx, reviewerID).Return(&models.Profile{UserID: reviewerID, Type: models.ProfileTypeBusiness}, nil)

	_, err := svc.CreateReview(ctx, reviewerID, false, ReviewCreateInput{
		BusinessUserID: businessID,
		Rating:         5,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestReviewService_CreateReview_TargetNotBusiness(t *testing.T) {
	store := new(mockReviewStore)
	profiles := new(mockProfiles)
	svc := NewReviewService(store, profiles)
	ctx := context.Background()

	reviewerID := uuid.New()
	targetID := uuid.New()

	profiles.On("GetProfile", ctx, targetID).Return(&models.Profile{UserID: targetID, Type: models.ProfileTypeCustomer}, nil)

	_, err := svc.CreateReview(ctx, reviewerID, false, ReviewCreateInput{
		BusinessUserID: targetID,
		Rating:         5,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReviewService_CreateReview_InvalidRating(t *testing.T) {
	svc := NewReviewService(new(mockReviewStore), new(mockProfiles))

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateReview(context.Background(), uuid.New(), false, ReviewCreateInput{
			BusinessUserID: uuid.New(),
			Rating:         rating,
		})
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	}
}

func TestReviewService_UpdateReview_OnlyReviewer(t *testing.T) {
	store := new(mockReviewStore)
	profiles := new(mockProfiles)
	svc := NewReviewService(store, profiles)
	ctx := context.Background()

	reviewID := uuid.New()
	actorID := uuid.New()
	review := &models.Review{ID: reviewID, ReviewerID: uuid.New(), Rating: 4}

	store.On("GetByID", ctx, reviewID).Return(review, nil)
	profiles.On("GetProfile", ctx, actorID).Return(&models.Profile{UserID: actorID, Type: models.ProfileTypeCustomer}, nil)

	rating := 1
	// Сотрудник тоже не может править чужой отзыв.
	_, err := svc.UpdateReview(ctx, actorID, true, reviewID, ReviewUpdateInput{Rating: &rating})

	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReviewService_UpdateReview_Success(t *testing.T) {
	store := new(mockReviewStore)
	profiles := new(mockProfiles)
	svc := NewReviewService(store, profiles)
	ctx := context.Background()

	reviewerID := uuid.New()
	reviewID := uuid.New()
	review := &models.Review{ID: reviewID, ReviewerID: reviewerID, Rating: 4, Description: "Хорошо"}

	store.On("GetByID", ctx, reviewID).Return(review, nil)
	profiles.On("GetProfile", ctx, reviewerID).Return(&models.Profile{UserID: reviewerID, Type: models.ProfileTypeCustomer}, nil)
	store.On("Update", ctx, review).Return(nil)

	rating := 2
	desc := "Передумал"
	updated, err := svc.UpdateReview(ctx, reviewerID, false, reviewID, ReviewUpdateInput{Rating: &rating, Description: &desc})

	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "Передумал", updated.Description)
}

func TestReviewService_DeleteReview_StaffForbidden(t *testing.T) {
	store := new(mockReviewStore)
	profiles := new(mockProfiles)
	svc := NewReviewService(store, profiles)
	ctx := context.Background()

	reviewID := uuid.New()
	staffID := uuid.New()
	store.On("GetByID", ctx, reviewID).Return(&models.Review{ID: reviewID, ReviewerID: uuid.New()}, nil)
	profiles.On("GetProfile", ctx, staffID).Return(nil, repository.ErrProfileNotFound)

	err := svc.DeleteReview(ctx, staffID, true, reviewID)

	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestReviewService_GetReview_NotFound(t *testing.T) {
	store := new(mockReviewStore)
	svc := NewReviewService(store, new(mockProfiles))
	ctx := context.Background()

	reviewID := uuid.New()
	store.On("GetByID", ctx, reviewID).Return(nil, repository.ErrReviewNotFound)

	_, err := svc.GetReview(ctx, reviewID)

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
