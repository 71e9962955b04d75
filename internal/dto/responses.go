package dto

import (
	"github.com/google/uuid"
)

// ErrorResponse стандартный ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthResponse ответ на регистрацию и вход.
type AuthResponse struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	UserID   uuid.UUID `json:"user_id"`
}

// PaginatedResponse обёртка списков с пагинацией.
type PaginatedResponse struct {
	Count   int         `json:"count"`
	Results interface{} `json:"results"`
}

// OrderCountResponse количество активных заказов бизнес-пользователя.
type OrderCountResponse struct {
	OrderCount int `json:"order_count"`
}

// CompletedOrderCountResponse количество завершённых заказов.
type CompletedOrderCountResponse struct {
	CompletedOrderCount int `json:"completed_order_count"`
}

// FileUploadResponse путь загруженного файла.
type FileUploadResponse struct {
	File string `json:"file"`
}
