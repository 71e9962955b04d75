package models

// ProfileType константы типов профиля
const (
	ProfileTypeCustomer = "customer"
	ProfileTypeBusiness = "business"
)

// OfferType константы тарифов оффера
const (
	OfferTypeBasic    = "basic"
	OfferTypeStandard = "standard"
	OfferTypePremium  = "premium"
)

// OrderStatus константы статусов заказов
const (
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ValidProfileTypes список валидных типов профиля
var ValidProfileTypes = map[string]struct{}{
	ProfileTypeCustomer: {},
	ProfileTypeBusiness: {},
}

// ValidOfferTypes список валидных тарифов
var ValidOfferTypes = map[string]struct{}{
	OfferTypeBasic:    {},
	OfferTypeStandard: {},
	OfferTypePremium:  {},
}

// ValidOrderStatuses список валидных статусов заказов
var ValidOrderStatuses = map[string]struct{}{
	OrderStatusInProgress: {},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}
