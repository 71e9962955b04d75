package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/coderr-backend/internal/models"
	"github.com/ignatzorin/coderr-backend/internal/pkg/apperror"
	"github.com/ignatzorin/coderr-backend/internal/policy"
	"github.com/ignatzorin/coderr-backend/internal/repository"
	"github.com/ignatzorin/coderr-backend/internal/validation"
)

// ReviewStore описывает зависимости ReviewService от слоя хранилища.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ExistsByPair(ctx context.Context, businessUserID, reviewerID uuid.UUID) (bool, error)
	List(ctx context.Context, params repository.ReviewListParams) ([]models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewService отвечает за отзывы на бизнес-пользователей.
type ReviewService struct {
	repo     ReviewStore
	profiles ProfileProvider
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(repo ReviewStore, profiles ProfileProvider) *ReviewService {
	return &ReviewService{repo: repo, profiles: profiles}
}

// ReviewCreateInput данные нового отзыва.
type ReviewCreateInput struct {
	BusinessUserID uuid.UUID
	Rating         int
	Description    string
}

// ReviewUpdateInput частичное обновление отзыва.
type ReviewUpdateInput struct {
	Rating      *int
	Description *string
}

// CreateReview создаёт отзыв. Один рецензент может оставить не больше
// одного отзыва на бизнес-пользователя; проверка пары перед вставкой
// не атомарна, гонку ловит уникальное ограничение в базе.
func (s *ReviewService) CreateReview(ctx context.Context, actorID uuid.UUID, isStaff bool, in ReviewCreateInput) (*models.Review, error) {
	if err := validation.ValidateRating(in.Rating); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("description", in.Description, 0, validation.MaxDescriptionLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	target, err := s.profiles.GetProfile(ctx, in.BusinessUserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("review service: %w", err)
	}
	if target.Type != models.ProfileTypeBusiness {
		return nil, apperror.New(apperror.ErrCodeValidation, "отзыв можно оставить только бизнес-пользователю")
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("review service: %w", err)
	}
	if policyErr := policy.RequireCustomer(actor); policyErr != nil {
		return nil, policyErr
	}

	exists, err := s.repo.ExistsByPair(ctx, in.BusinessUserID, actorID)
	if err != nil {
		return nil, fmt.Errorf("review service: %w", err)
	}
	if exists {
		return nil, apperror.ErrDuplicateReview
	}

	review := &models.Review{
		BusinessUserID: in.BusinessUserID,
		ReviewerID:     actorID,
		Rating:         in.Rating,
		Description:    in.Description,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, apperror.ErrDuplicateReview
		}
		return nil, fmt.Errorf("review service: %w", err)
	}

	return review, nil
}

// GetReview возвращает отзыв по идентификатору.
func (s *ReviewService) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, apperror.ErrReviewNotFound
		}
		return nil, fmt.Errorf("review service: %w", err)
	}
	return review, nil
}

// ListReviews возвращает отзывы с фильтрами и сортировкой.
func (s *ReviewService) ListReviews(ctx context.Context, params repository.ReviewListParams) ([]models.Review, error) {
	reviews, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("review service: %w", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// UpdateReview правит оценку или текст. Доступно только автору отзыва,
// без исключений для сотрудников.
func (s *ReviewService) UpdateReview(ctx context.Context, actorID uuid.UUID, isStaff bool, reviewID uuid.UUID, in ReviewUpdateInput) (*models.Review, error) {
	review, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("review service: %w", err)
	}
	if policyErr := policy.RequireReviewer(actor, review); policyErr != nil {
		return nil, policyErr
	}

	if in.Rating != nil {
		if err := validation.ValidateRating(*in.Rating); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		review.Rating = *in.Rating
	}
	if in.Description != nil {
		if err := validation.ValidateLength("description", *in.Description, 0, validation.MaxDescriptionLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		review.Description = *in.Description
	}

	if err := s.repo.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, apperror.ErrReviewNotFound
		}
		return nil, fmt.Errorf("review service: %w", err)
	}

	return review, nil
}

// DeleteReview удаляет отзыв. Доступно только автору.
func (s *ReviewService) DeleteReview(ctx context.Context, actorID uuid.UUID, isStaff bool, reviewID uuid.UUID) error {
	review, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return fmt.Errorf("review service: %w", err)
	}
	if policyErr := policy.RequireReviewer(actor, review); policyErr != nil {
		return policyErr
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("review service: %w", err)
	}
	return nil
}
