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

// OfferStore описывает зависимости OfferService от слоя хранилища.
type OfferStore interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	List(ctx context.Context, params repository.OfferListParams) (*repository.OfferListResult, error)
	Update(ctx context.Context, offer *models.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetDetailByID(ctx context.Context, id uuid.UUID) (*models.OfferDetail, error)
	GetDetailForOffer(ctx context.Context, offerID, detailID uuid.UUID) (*models.OfferDetail, error)
	GetDetailForOfferByType(ctx context.Context, offerID uuid.UUID, offerType string) (*models.OfferDetail, error)
	CreateDetail(ctx context.Context, detail *models.OfferDetail) error
	UpdateDetail(ctx context.Context, detail *models.OfferDetail) error
	ListDetails(ctx context.Context, limit, offset int) ([]models.OfferDetail, error)
}

// OfferService отвечает за каталог офферов.
type OfferService struct {
	repo     OfferStore
	profiles ProfileProvider
}

// NewOfferService создаёт сервис офферов.
func NewOfferService(repo OfferStore, profiles ProfileProvider) *OfferService {
	return &OfferService{repo: repo, profiles: profiles}
}

// OfferDetailInput тариф в составе создаваемого оффера.
type OfferDetailInput struct {
	Title              string
	Revisions          int
	DeliveryTimeInDays int
	Price              float64
	Features           []string
	OfferType          string
}

// OfferCreateInput данные нового оффера.
type OfferCreateInput struct {
	Title       string
	Description string
	Details     []OfferDetailInput
}

// OfferDetailUpdate частичное обновление тарифа. Целевой тариф задаётся
// либо идентификатором, либо типом, но не обоими сразу.
type OfferDetailUpdate struct {
	ID                 *uuid.UUID
	OfferType          *string
	Title              *string
	Revisions          *int
	DeliveryTimeInDays *int
	Price              *float64
	Features           *[]string
}

// OfferUpdateInput частичное обновление оффера.
type OfferUpdateInput struct {
	Title       *string
	Description *string
	Details     []OfferDetailUpdate
}

// CreateOffer создаёт оффер ровно с тремя тарифами basic/standard/premium.
// Валидация состава тарифов выполняется до ролевой проверки.
func (s *OfferService) CreateOffer(ctx context.Context, actorID uuid.UUID, isStaff bool, in OfferCreateInput) (*models.Offer, error) {
	if err := validation.ValidateOfferTitle(in.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("description", in.Description, 0, validation.MaxDescriptionLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if len(in.Details) != 3 {
		return nil, apperror.New(apperror.ErrCodeValidation, "оффер должен содержать ровно три тарифа")
	}
	seen := map[string]bool{}
	details := make([]models.OfferDetail, 0, 3)
	for _, d := range in.Details {
		detail := models.OfferDetail{
			Title:              d.Title,
			Revisions:          d.Revisions,
			DeliveryTimeInDays: d.DeliveryTimeInDays,
			Price:              d.Price,
			Features:           d.Features,
			OfferType:          d.OfferType,
		}
		if err := validation.ValidateOfferDetail(&detail); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		if seen[detail.OfferType] {
			return nil, apperror.New(apperror.ErrCodeValidation, "типы тарифов не должны повторяться")
		}
		seen[detail.OfferType] = true
		details = append(details, detail)
	}
	if !seen[models.OfferTypeBasic] || !seen[models.OfferTypeStandard] || !seen[models.OfferTypePremium] {
		return nil, apperror.New(apperror.ErrCodeValidation, "оффер должен содержать тарифы basic, standard и premium")
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}
	if policyErr := policy.RequireBusiness(actor); policyErr != nil {
		return nil, policyErr
	}

	offer := &models.Offer{
		UserID:      actorID,
		Title:       in.Title,
		Description: in.Description,
		Details:     details,
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}

	offer.ComputeMins()
	return offer, nil
}

// GetOffer возвращает оффер с тарифами и данными владельца.
// Минимальные цена и срок пересчитываются на каждом чтении.
func (s *OfferService) GetOffer(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, apperror.ErrOfferNotFound
		}
		return nil, fmt.Errorf("offer service: %w", err)
	}

	offer.ComputeMins()
	s.attachOwner(ctx, offer)

	return offer, nil
}

// ListOffers возвращает офферы с фильтрами и пагинацией.
func (s *OfferService) ListOffers(ctx context.Context, params repository.OfferListParams) (*repository.OfferListResult, error) {
	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}

	owners := map[uuid.UUID]*models.Profile{}
	for i := range result.Offers {
		offer := &result.Offers[i]
		offer.ComputeMins()

		profile, ok := owners[offer.UserID]
		if !ok {
			profile, _ = s.profiles.GetProfile(ctx, offer.UserID)
			owners[offer.UserID] = profile
		}
		if profile != nil {
			offer.UserDetails = &models.OfferOwner{
				FirstName: profile.FirstName,
				LastName:  profile.LastName,
				Username:  profile.Username,
			}
		}
	}

	if result.Offers == nil {
		result.Offers = []models.Offer{}
	}
	return result, nil
}

// UpdateOffer частично обновляет оффер и его тарифы.
func (s *OfferService) UpdateOffer(ctx context.Context, actorID uuid.UUID, isStaff bool, offerID uuid.UUID, in OfferUpdateInput) (*models.Offer, error) {
	offer, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, apperror.ErrOfferNotFound
		}
		return nil, fmt.Errorf("offer service: %w", err)
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}
	if policyErr := policy.RequireOfferOwner(actor, offer); policyErr != nil {
		return nil, policyErr
	}

	if in.Title != nil {
		if err := validation.ValidateOfferTitle(*in.Title); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		offer.Title = *in.Title
	}
	if in.Description != nil {
		if err := validation.ValidateLength("description", *in.Description, 0, validation.MaxDescriptionLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		offer.Description = *in.Description
	}

	if in.Title != nil || in.Description != nil {
		if err := s.repo.Update(ctx, offer); err != nil {
			return nil, fmt.Errorf("offer service: %w", err)
		}
	}

	for _, upd := range in.Details {
		if err := s.applyDetailUpdate(ctx, offerID, upd); err != nil {
			return nil, err
		}
	}

	// Перечитываем, чтобы отдать актуальный состав тарифов.
	updated, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}
	updated.ComputeMins()
	s.attachOwner(ctx, updated)

	return updated, nil
}

// applyDetailUpdate находит целевой тариф по id или типу и применяет правку.
func (s *OfferService) applyDetailUpdate(ctx context.Context, offerID uuid.UUID, upd OfferDetailUpdate) error {
	if upd.ID == nil && upd.OfferType == nil {
		return apperror.New(apperror.ErrCodeValidation, "тариф должен быть указан по id или по типу")
	}
	if upd.ID != nil && upd.OfferType != nil {
		return apperror.New(apperror.ErrCodeValidation, "тариф указывается либо по id, либо по типу, но не обоими способами")
	}

	var detail *models.OfferDetail
	var err error
	if upd.ID != nil {
		detail, err = s.repo.GetDetailForOffer(ctx, offerID, *upd.ID)
	} else {
		detail, err = s.repo.GetDetailForOfferByType(ctx, offerID, *upd.OfferType)
	}
	if err != nil {
		if errors.Is(err, repository.ErrOfferDetailNotFound) {
			return apperror.ErrOfferDetailNotFound
		}
		return fmt.Errorf("offer service: %w", err)
	}

	if upd.Title != nil {
		detail.Title = *upd.Title
	}
	if upd.Revisions != nil {
		detail.Revisions = *upd.Revisions
	}
	if upd.DeliveryTimeInDays != nil {
		detail.DeliveryTimeInDays = *upd.DeliveryTimeInDays
	}
	if upd.Price != nil {
		detail.Price = *upd.Price
	}
	if upd.Features != nil {
		detail.Features = *upd.Features
	}

	if err := validation.ValidateOfferDetail(detail); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if err := s.repo.UpdateDetail(ctx, detail); err != nil {
		return fmt.Errorf("offer service: %w", err)
	}
	return nil
}

// DeleteOffer удаляет оффер. Снимки условий в заказах сохраняются.
func (s *OfferService) DeleteOffer(ctx context.Context, actorID uuid.UUID, isStaff bool, offerID uuid.UUID) error {
	offer, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return apperror.ErrOfferNotFound
		}
		return fmt.Errorf("offer service: %w", err)
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return fmt.Errorf("offer service: %w", err)
	}
	if policyErr := policy.RequireOfferOwner(actor, offer); policyErr != nil {
		return policyErr
	}

	if err := s.repo.Delete(ctx, offerID); err != nil {
		return fmt.Errorf("offer service: %w", err)
	}
	return nil
}

// SetOfferImage сохраняет картинку оффера. Запись в хранилище выполняется
// только после проверки владельца: отказ не оставляет файла.
func (s *OfferService) SetOfferImage(ctx context.Context, actorID uuid.UUID, isStaff bool, offerID uuid.UUID, save func(context.Context) (string, error)) (*models.Offer, error) {
	offer, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, apperror.ErrOfferNotFound
		}
		return nil, fmt.Errorf("offer service: %w", err)
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}
	if policyErr := policy.RequireOfferOwner(actor, offer); policyErr != nil {
		return nil, policyErr
	}

	path, err := save(ctx)
	if err != nil {
		return nil, fmt.Errorf("offer service: save image %w", err)
	}

	offer.Image = &path
	if err := s.repo.Update(ctx, offer); err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}

	offer.ComputeMins()
	return offer, nil
}

// AddOfferDetail добавляет отдельный тариф к офферу. Доступно только
// владельцу оффера; тип тарифа не должен дублировать уже существующий.
func (s *OfferService) AddOfferDetail(ctx context.Context, actorID uuid.UUID, isStaff bool, offerID uuid.UUID, in OfferDetailInput) (*models.OfferDetail, error) {
	detail := &models.OfferDetail{
		OfferID:            offerID,
		Title:              in.Title,
		Revisions:          in.Revisions,
		DeliveryTimeInDays: in.DeliveryTimeInDays,
		Price:              in.Price,
		Features:           in.Features,
		OfferType:          in.OfferType,
	}
	if err := validation.ValidateOfferDetail(detail); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	offer, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, apperror.ErrOfferNotFound
		}
		return nil, fmt.Errorf("offer service: %w", err)
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}
	if policyErr := policy.RequireOfferOwner(actor, offer); policyErr != nil {
		return nil, policyErr
	}

	if _, err := s.repo.GetDetailForOfferByType(ctx, offerID, detail.OfferType); err == nil {
		return nil, apperror.ErrDuplicateTierType
	} else if !errors.Is(err, repository.ErrOfferDetailNotFound) {
		return nil, fmt.Errorf("offer service: %w", err)
	}

	if err := s.repo.CreateDetail(ctx, detail); err != nil {
		// Гонка двух одновременных добавлений ловится ограничением БД.
		if errors.Is(err, repository.ErrDuplicateOfferDetail) {
			return nil, apperror.ErrDuplicateTierType
		}
		return nil, fmt.Errorf("offer service: %w", err)
	}
	return detail, nil
}

// GetOfferDetail возвращает отдельный тариф.
func (s *OfferService) GetOfferDetail(ctx context.Context, id uuid.UUID) (*models.OfferDetail, error) {
	detail, err := s.repo.GetDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOfferDetailNotFound) {
			return nil, apperror.ErrOfferDetailNotFound
		}
		return nil, fmt.Errorf("offer service: %w", err)
	}
	return detail, nil
}

// ListOfferDetails возвращает тарифы всех офферов.
func (s *OfferService) ListOfferDetails(ctx context.Context, limit, offset int) ([]models.OfferDetail, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	details, err := s.repo.ListDetails(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}
	if details == nil {
		details = []models.OfferDetail{}
	}
	return details, nil
}

func (s *OfferService) attachOwner(ctx context.Context, offer *models.Offer) {
	profile, err := s.profiles.GetProfile(ctx, offer.UserID)
	if err != nil {
		return
	}
	offer.UserDetails = &models.OfferOwner{
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Username:  profile.Username,
	}
}
