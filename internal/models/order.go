package models

import (
	"time"

	"github.com/google/uuid"
)

// Order описывает заказ клиента на конкретный тариф оффера.
// Поля тарифа копируются в заказ в момент создания и дальше не меняются,
// даже если исходный тариф редактируется или удаляется.
type Order struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	CustomerUserID uuid.UUID  `db:"customer_user_id" json:"customer_user"`
	BusinessUserID uuid.UUID  `db:"business_user_id" json:"business_user"`
	OfferDetailID  *uuid.UUID `db:"offer_detail_id" json:"offer_detail"`

	// Снимок тарифа на момент создания заказа.
	Title              string   `db:"title" json:"title"`
	Revisions          int      `db:"revisions" json:"revisions"`
	DeliveryTimeInDays int      `db:"delivery_time_in_days" json:"delivery_time_in_days"`
	Price              float64  `db:"price" json:"price"`
	Features           []string `db:"-" json:"features"`
	OfferType          string   `db:"offer_type" json:"offer_type"`

	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
