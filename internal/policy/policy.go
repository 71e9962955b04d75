// Package policy содержит единый набор правил доступа к ресурсам.
//
// Каждая мутирующая операция над офферами, заказами и отзывами обязана
// пройти через функции этого пакета вместо разрозненных проверок в
// хэндлерах. Порядок проверок фиксирован: валидация тела запроса →
// аутентификация → существование ресурса → роль/владение. Отказ
// политики никогда не следует за записью в хранилище.
package policy

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/coderr-backend/internal/models"
	"github.com/ignatzorin/coderr-backend/internal/pkg/apperror"
)

// Actor описывает аутентифицированного пользователя запроса.
// Profile равен nil, когда у пользователя нет записи профиля:
// это отдельный отказ, не совпадающий с отказом по неверной роли.
type Actor struct {
	UserID  uuid.UUID
	IsStaff bool
	Profile *models.Profile
}

// HasProfile сообщает, есть ли у актора запись профиля.
func (a Actor) HasProfile() bool {
	return a.Profile != nil
}

// IsBusiness сообщает, является ли актор бизнес-пользователем.
func (a Actor) IsBusiness() bool {
	return a.Profile != nil && a.Profile.Type == models.ProfileTypeBusiness
}

// IsCustomer сообщает, является ли актор клиентом.
func (a Actor) IsCustomer() bool {
	return a.Profile != nil && a.Profile.Type == models.ProfileTypeCustomer
}

// RequireBusiness разрешает операцию только бизнес-пользователям.
func RequireBusiness(actor Actor) *apperror.AppError {
	if !actor.HasProfile() {
		return apperror.New(apperror.ErrCodeForbidden, "профиль пользователя не найден")
	}
	if !actor.IsBusiness() {
		return apperror.New(apperror.ErrCodeForbidden, "операция доступна только бизнес-пользователям")
	}
	return nil
}

// RequireCustomer разрешает операцию только клиентам.
func RequireCustomer(actor Actor) *apperror.AppError {
	if !actor.HasProfile() {
		return apperror.New(apperror.ErrCodeForbidden, "профиль пользователя не найден")
	}
	if !actor.IsCustomer() {
		return apperror.New(apperror.ErrCodeForbidden, "операция доступна только клиентам")
	}
	return nil
}

// RequireProfileOwner разрешает изменение профиля только его владельцу.
func RequireProfileOwner(actor Actor, profile *models.Profile) *apperror.AppError {
	if profile.UserID != actor.UserID {
		return apperror.New(apperror.ErrCodeForbidden, "можно изменять только собственный профиль")
	}
	return nil
}

// RequireOfferOwner разрешает изменение и удаление оффера только владельцу.
// Владение определяется по сохранённому user_id оффера, не выводится заново.
func RequireOfferOwner(actor Actor, offer *models.Offer) *apperror.AppError {
	if offer.UserID != actor.UserID {
		return apperror.New(apperror.ErrCodeForbidden, "можно изменять только собственные офферы")
	}
	return nil
}

// RequireOrderParty разрешает чтение заказа его клиенту или бизнес-стороне.
func RequireOrderParty(actor Actor, order *models.Order) *apperror.AppError {
	if actor.UserID != order.CustomerUserID && actor.UserID != order.BusinessUserID {
		return apperror.New(apperror.ErrCodeForbidden, "вы не участник этого заказа")
	}
	return nil
}

// RequireOrderBusiness разрешает смену статуса заказа только бизнес-стороне.
func RequireOrderBusiness(actor Actor, order *models.Order) *apperror.AppError {
	if actor.UserID != order.BusinessUserID {
		return apperror.New(apperror.ErrCodeForbidden, "статус заказа меняет только бизнес-пользователь")
	}
	return nil
}

// CanDeleteOrder разрешает удаление заказа любой из сторон или сотруднику.
// Это шире, чем правила для офферов и отзывов: асимметрия намеренная.
func CanDeleteOrder(actor Actor, order *models.Order) *apperror.AppError {
	if actor.IsStaff {
		return nil
	}
	if actor.UserID == order.CustomerUserID || actor.UserID == order.BusinessUserID {
		return nil
	}
	return apperror.New(apperror.ErrCodeForbidden, "удалять заказ могут только его участники")
}

// RequireReviewer разрешает изменение и удаление отзыва только его автору.
// Исключений нет даже для сотрудников.
func RequireReviewer(actor Actor, review *models.Review) *apperror.AppError {
	if review.ReviewerID != actor.UserID {
		return apperror.New(apperror.ErrCodeForbidden, "изменять отзыв может только его автор")
	}
	return nil
}
