package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/coderr-backend/internal/models"
)

// Ошибки уровня репозитория отзывов.
var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("duplicate review")
)

// ReviewRepository хранит отзывы на исполнителей.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository создаёт новый экземпляр.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// ReviewListParams параметры фильтрации списка отзывов.
type ReviewListParams struct {
	BusinessUserID *uuid.UUID
	ReviewerID     *uuid.UUID
	Ordering       string
}

// Create сохраняет отзыв. Уникальность пары (business_user_id, reviewer_id)
// дополнительно гарантирует ограничение в базе: при гонке двух запросов
// нарушение уникальности превращается в ErrDuplicateReview.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (business_user_id, reviewer_id, rating, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(
		ctx, query,
		review.BusinessUserID, review.ReviewerID, review.Rating, review.Description,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReview
		}
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// GetByID возвращает отзыв по идентификатору.
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	query := `
		SELECT id, business_user_id, reviewer_id, rating, description, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("review repository: get by id %w", err)
	}
	return &review, nil
}

// ExistsByPair сообщает, оставлял ли рецензент отзыв на данного исполнителя.
func (r *ReviewRepository) ExistsByPair(ctx context.Context, businessUserID, reviewerID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE business_user_id = $1 AND reviewer_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, businessUserID, reviewerID); err != nil {
		return false, fmt.Errorf("review repository: exists by pair %w", err)
	}
	return exists, nil
}

// List возвращает отзывы с фильтрами и сортировкой.
func (r *ReviewRepository) List(ctx context.Context, params ReviewListParams) ([]models.Review, error) {
	query := `
		SELECT id, business_user_id, reviewer_id, rating, description, created_at, updated_at
		FROM reviews
		WHERE 1=1
	`
	args := []interface{}{}
	argIndex := 1

	if params.BusinessUserID != nil {
		query += fmt.Sprintf(" AND business_user_id = $%d", argIndex)
		args = append(args, *params.BusinessUserID)
		argIndex++
	}

	if params.ReviewerID != nil {
		query += fmt.Sprintf(" AND reviewer_id = $%d", argIndex)
		args = append(args, *params.ReviewerID)
		argIndex++
	}

	switch params.Ordering {
	case "rating":
		query += " ORDER BY rating ASC"
	case "-rating":
		query += " ORDER BY rating DESC"
	case "updated_at":
		query += " ORDER BY updated_at ASC"
	default: // "-updated_at"
		query += " ORDER BY updated_at DESC"
	}

	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("review repository: list %w", err)
	}

	return reviews, nil
}

// Update обновляет оценку и текст отзыва.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query, review.ID, review.Rating, review.Description,
	).Scan(&review.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("review repository: update %w", err)
	}
	return nil
}

// Delete удаляет отзыв.
func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("review repository: delete %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("review repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
