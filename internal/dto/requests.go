package dto

// RegisterRequest данные регистрации нового пользователя.
type RegisterRequest struct {
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email" binding:"required"`
	Password         string `json:"password" binding:"required"`
	RepeatedPassword string `json:"repeated_password" binding:"required"`
	Type             string `json:"type" binding:"required"`
}

// LoginRequest данные для входа.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest частичное обновление профиля.
type UpdateProfileRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Location     *string `json:"location"`
	Tel          *string `json:"tel"`
	Description  *string `json:"description"`
	WorkingHours *string `json:"working_hours"`
	Email        *string `json:"email"`
}

// OfferDetailRequest тариф в составе создаваемого оффера.
type OfferDetailRequest struct {
	Title              string   `json:"title" binding:"required"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days" binding:"required"`
	Price              float64  `json:"price" binding:"required"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type" binding:"required"`
}

// CreateOfferRequest данные нового оффера.
type CreateOfferRequest struct {
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description"`
	Details     []OfferDetailRequest `json:"details" binding:"required"`
}

// OfferDetailPatch частичная правка тарифа. Целевой тариф задаётся
// либо id, либо offer_type.
type OfferDetailPatch struct {
	ID                 *string   `json:"id"`
	OfferType          *string   `json:"offer_type"`
	Title              *string   `json:"title"`
	Revisions          *int      `json:"revisions"`
	DeliveryTimeInDays *int      `json:"delivery_time_in_days"`
	Price              *float64  `json:"price"`
	Features           *[]string `json:"features"`
}

// UpdateOfferRequest частичное обновление оффера.
type UpdateOfferRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Details     []OfferDetailPatch `json:"details"`
}

// CreateOfferDetailRequest добавление отдельного тарифа к офферу.
type CreateOfferDetailRequest struct {
	Offer string `json:"offer" binding:"required"`
	OfferDetailRequest
}

// CreateOrderRequest данные нового заказа.
type CreateOrderRequest struct {
	OfferDetailID string `json:"offer_detail_id" binding:"required"`
}

// UpdateOrderRequest смена статуса заказа.
type UpdateOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateReviewRequest данные нового отзыва.
type CreateReviewRequest struct {
	BusinessUser string `json:"business_user" binding:"required"`
	Rating       int    `json:"rating" binding:"required"`
	Description  string `json:"description"`
}

// UpdateReviewRequest частичная правка отзыва.
type UpdateReviewRequest struct {
	Rating      *int    `json:"rating"`
	Description *string `json:"description"`
}
