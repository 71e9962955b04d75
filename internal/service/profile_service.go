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

// ProfileRepository описывает зависимости ProfileService от слоя хранилища.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
	ListProfilesByType(ctx context.Context, profileType string) ([]models.Profile, error)
}

// ProfileService отвечает за просмотр и редактирование профилей.
type ProfileService struct {
	repo ProfileRepository
}

// ProfileUpdateInput частичное обновление профиля. Поля nil не трогаются.
type ProfileUpdateInput struct {
	FirstName    *string
	LastName     *string
	Location     *string
	Tel          *string
	Description  *string
	WorkingHours *string
	Email        *string
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile возвращает профиль пользователя. Доступен любому
// аутентифицированному пользователю.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile service: %w", err)
	}
	return profile, nil
}

// UpdateProfile частично обновляет профиль. Разрешено только владельцу,
// тип профиля изменить нельзя.
func (s *ProfileService) UpdateProfile(ctx context.Context, actorID uuid.UUID, isStaff bool, userID uuid.UUID, in ProfileUpdateInput) (*models.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile service: %w", err)
	}

	actor, err := resolveActor(ctx, s.repo, actorID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}
	if policyErr := policy.RequireProfileOwner(actor, profile); policyErr != nil {
		return nil, policyErr
	}

	if in.FirstName != nil {
		profile.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		profile.LastName = *in.LastName
	}
	if in.Location != nil {
		profile.Location = *in.Location
	}
	if in.Tel != nil {
		profile.Tel = *in.Tel
	}
	if in.Description != nil {
		if err := validation.ValidateLength("description", *in.Description, 0, validation.MaxDescriptionLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		profile.Description = *in.Description
	}
	if in.WorkingHours != nil {
		profile.WorkingHours = *in.WorkingHours
	}
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		profile.Email = *in.Email
	}

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperror.New(apperror.ErrCodeValidation, "email уже зарегистрирован")
		}
		return nil, fmt.Errorf("profile service: %w", err)
	}

	return profile, nil
}

// SetProfileFile сохраняет загруженный файл профиля. Запись в хранилище
// выполняется только после проверки владельца: отказ не оставляет файла.
func (s *ProfileService) SetProfileFile(ctx context.Context, actorID uuid.UUID, isStaff bool, userID uuid.UUID, save func(context.Context) (string, error)) (*models.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile service: %w", err)
	}

	actor, err := resolveActor(ctx, s.repo, actorID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}
	if policyErr := policy.RequireProfileOwner(actor, profile); policyErr != nil {
		return nil, policyErr
	}

	path, err := save(ctx)
	if err != nil {
		return nil, fmt.Errorf("profile service: save file %w", err)
	}

	profile.File = &path
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}

	return profile, nil
}

// ListBusinessProfiles возвращает все бизнес-профили.
func (s *ProfileService) ListBusinessProfiles(ctx context.Context) ([]models.Profile, error) {
	return s.listByType(ctx, models.ProfileTypeBusiness)
}

// ListCustomerProfiles возвращает все клиентские профили.
func (s *ProfileService) ListCustomerProfiles(ctx context.Context) ([]models.Profile, error) {
	return s.listByType(ctx, models.ProfileTypeCustomer)
}

func (s *ProfileService) listByType(ctx context.Context, profileType string) ([]models.Profile, error) {
	profiles, err := s.repo.ListProfilesByType(ctx, profileType)
	if err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return profiles, nil
}
