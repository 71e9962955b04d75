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

// OrderStore описывает зависимости OrderService от слоя хранилища.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByParty(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountInProgressByBusinessUser(ctx context.Context, businessUserID uuid.UUID) (int, error)
	CountCompletedByBusinessUser(ctx context.Context, businessUserID uuid.UUID) (int, error)
}

// OfferDetailProvider отдаёт тариф и его родительский оффер для снимка условий.
type OfferDetailProvider interface {
	GetDetailByID(ctx context.Context, id uuid.UUID) (*models.OfferDetail, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
}

// OrderService отвечает за заказы.
type OrderService struct {
	repo     OrderStore
	offers   OfferDetailProvider
	profiles ProfileProvider
}

// NewOrderService создаёт сервис заказов.
func NewOrderService(repo OrderStore, offers OfferDetailProvider, profiles ProfileProvider) *OrderService {
	return &OrderService{repo: repo, offers: offers, profiles: profiles}
}

// CreateOrder создаёт заказ по тарифу. Шесть полей условий копируются
// в заказ один раз при создании, дальнейшие правки тарифа заказ не меняют.
func (s *OrderService) CreateOrder(ctx context.Context, actorID uuid.UUID, isStaff bool, offerDetailID uuid.UUID) (*models.Order, error) {
	detail, err := s.offers.GetDetailByID(ctx, offerDetailID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferDetailNotFound) {
			return nil, apperror.ErrOfferDetailNotFound
		}
		return nil, fmt.Errorf("order service: %w", err)
	}

	offer, err := s.offers.GetByID(ctx, detail.OfferID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, apperror.ErrOfferNotFound
		}
		return nil, fmt.Errorf("order service: %w", err)
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}
	if policyErr := policy.RequireCustomer(actor); policyErr != nil {
		return nil, policyErr
	}

	detailID := detail.ID
	order := &models.Order{
		CustomerUserID:     actorID,
		BusinessUserID:     offer.UserID,
		OfferDetailID:      &detailID,
		Title:              detail.Title,
		Revisions:          detail.Revisions,
		DeliveryTimeInDays: detail.DeliveryTimeInDays,
		Price:              detail.Price,
		Features:           detail.Features,
		OfferType:          detail.OfferType,
		Status:             models.OrderStatusInProgress,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}

	return order, nil
}

// GetOrder возвращает заказ его участнику.
func (s *OrderService) GetOrder(ctx context.Context, actorID uuid.UUID, isStaff bool, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}
	if policyErr := policy.RequireOrderParty(actor, order); policyErr != nil {
		return nil, policyErr
	}

	return order, nil
}

// ListOrders возвращает заказы, где пользователь заказчик или исполнитель.
func (s *OrderService) ListOrders(ctx context.Context, actorID uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.ListByParty(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// UpdateOrderStatus меняет статус заказа. Доступно только бизнес-стороне.
// Граф переходов не проверяется: любой допустимый статус принимается.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actorID uuid.UUID, isStaff bool, orderID uuid.UUID, status string) (*models.Order, error) {
	if err := validation.ValidateOrderStatus(status); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}
	if policyErr := policy.RequireOrderBusiness(actor, order); policyErr != nil {
		return nil, policyErr
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, fmt.Errorf("order service: %w", err)
	}

	return updated, nil
}

// DeleteOrder удаляет заказ. Разрешено любой из сторон и сотрудникам,
// шире правил для офферов и отзывов.
func (s *OrderService) DeleteOrder(ctx context.Context, actorID uuid.UUID, isStaff bool, orderID uuid.UUID) error {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return err
	}

	actor, err := resolveActor(ctx, s.profiles, actorID, isStaff)
	if err != nil {
		return fmt.Errorf("order service: %w", err)
	}
	if policyErr := policy.CanDeleteOrder(actor, order); policyErr != nil {
		return policyErr
	}

	if err := s.repo.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("order service: %w", err)
	}
	return nil
}

// CountInProgress возвращает количество активных заказов бизнес-пользователя.
func (s *OrderService) CountInProgress(ctx context.Context, businessUserID uuid.UUID) (int, error) {
	if err := s.requireBusinessUser(ctx, businessUserID); err != nil {
		return 0, err
	}
	count, err := s.repo.CountInProgressByBusinessUser(ctx, businessUserID)
	if err != nil {
		return 0, fmt.Errorf("order service: %w", err)
	}
	return count, nil
}

// CountCompleted возвращает количество завершённых заказов бизнес-пользователя.
func (s *OrderService) CountCompleted(ctx context.Context, businessUserID uuid.UUID) (int, error) {
	if err := s.requireBusinessUser(ctx, businessUserID); err != nil {
		return 0, err
	}
	count, err := s.repo.CountCompletedByBusinessUser(ctx, businessUserID)
	if err != nil {
		return 0, fmt.Errorf("order service: %w", err)
	}
	return count, nil
}

// requireBusinessUser убеждается, что по идентификатору есть бизнес-профиль.
// Несуществующий или не бизнес-пользователь даёт not found.
func (s *OrderService) requireBusinessUser(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return apperror.ErrUserNotFound
		}
		return fmt.Errorf("order service: %w", err)
	}
	if profile.Type != models.ProfileTypeBusiness {
		return apperror.ErrUserNotFound
	}
	return nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, fmt.Errorf("order service: %w", err)
	}
	return order, nil
}
