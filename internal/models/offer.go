package models

import (
	"time"

	"github.com/google/uuid"
)

// Offer описывает услугу бизнес-пользователя с тремя тарифами.
type Offer struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user"`
	Title       string    `db:"title" json:"title"`
	Image       *string   `db:"image" json:"image"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Заполняются при чтении, в таблице не хранятся.
	Details         []OfferDetail `db:"-" json:"details"`
	MinPrice        *float64      `db:"-" json:"min_price"`
	MinDeliveryTime *int          `db:"-" json:"min_delivery_time"`
	UserDetails     *OfferOwner   `db:"-" json:"user_details,omitempty"`
}

// OfferOwner содержит краткие данные владельца оффера для выдачи.
type OfferOwner struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// OfferDetail описывает один тариф оффера: basic, standard или premium.
type OfferDetail struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	OfferID            uuid.UUID `db:"offer_id" json:"offer"`
	Title              string    `db:"title" json:"title"`
	Revisions          int       `db:"revisions" json:"revisions"`
	DeliveryTimeInDays int       `db:"delivery_time_in_days" json:"delivery_time_in_days"`
	Price              float64   `db:"price" json:"price"`
	Features           []string  `db:"-" json:"features"`
	OfferType          string    `db:"offer_type" json:"offer_type"`
}

// ComputeMins пересчитывает производные min_price и min_delivery_time
// по текущим тарифам. При пустом списке тарифов оба значения nil.
func (o *Offer) ComputeMins() {
	o.MinPrice = nil
	o.MinDeliveryTime = nil
	for i := range o.Details {
		d := &o.Details[i]
		if o.MinPrice == nil || d.Price < *o.MinPrice {
			price := d.Price
			o.MinPrice = &price
		}
		if o.MinDeliveryTime == nil || d.DeliveryTimeInDays < *o.MinDeliveryTime {
			days := d.DeliveryTimeInDays
			o.MinDeliveryTime = &days
		}
	}
}
