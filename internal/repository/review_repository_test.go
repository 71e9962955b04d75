package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/coderr-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, smock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), smock
}

func TestReviewRepository_Create_Success(t *testing.T) {
	db, smock := newMockDB(t)
	repo := NewReviewRepository(db)

	reviewID := uuid.New()
	now := time.Now()
	review := &models.Review{
		BusinessUserID: uuid.New(),
		ReviewerID:     uuid.New(),
		Rating:         5,
		Description:    "Отличная работа",
	}

	smock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs(review.BusinessUserID, review.ReviewerID, review.Rating, review.Description).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(reviewID, now, now))

	err := repo.Create(context.Background(), review)

	require.NoError(t, err)
	assert.Equal(t, reviewID, review.ID)
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestReviewRepository_Create_UniqueViolation(t *testing.T) {
	db, smock := newMockDB(t)
	repo := NewReviewRepository(db)

	review := &models.Review{
		BusinessUserID: uuid.New(),
		ReviewerID:     uuid.New(),
		Rating:         4,
	}

	// Гонка двух одновременных отзывов упирается в уникальное ограничение.
	smock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs(review.BusinessUserID, review.ReviewerID, review.Rating, review.Description).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "reviews_business_user_id_reviewer_id_key"})

	err := repo.Create(context.Background(), review)

	assert.ErrorIs(t, err, ErrDuplicateReview)
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID_NotFound(t *testing.T) {
	db, smock := newMockDB(t)
	repo := NewReviewRepository(db)

	reviewID := uuid.New()
	smock.ExpectQuery("SELECT (.+) FROM reviews").
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), reviewID)

	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewRepository_ExistsByPair(t *testing.T) {
	db, smock := newMockDB(t)
	repo := NewReviewRepository(db)

	businessID := uuid.New()
	reviewerID := uuid.New()
	smock.ExpectQuery("SELECT EXISTS").
		WithArgs(businessID, reviewerID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByPair(context.Background(), businessID, reviewerID)

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReviewRepository_List_FilterByBusinessUser(t *testing.T) {
	db, smock := newMockDB(t)
	repo := NewReviewRepository(db)

	businessID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "business_user_id", "reviewer_id", "rating", "description", "created_at", "updated_at"}).
		AddRow(uuid.New(), businessID, uuid.New(), 5, "Супер", now, now).
		AddRow(uuid.New(), businessID, uuid.New(), 3, "Нормально", now, now)

	smock.ExpectQuery("SELECT (.+) FROM reviews(.+)business_user_id(.+)ORDER BY rating DESC").
		WithArgs(businessID).
		WillReturnRows(rows)

	reviews, err := repo.List(context.Background(), ReviewListParams{
		BusinessUserID: &businessID,
		Ordering:       "-rating",
	})

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, businessID, reviews[0].BusinessUserID)
}
