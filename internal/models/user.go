package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает учётную запись пользователя платформы.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Profile описывает профиль пользователя с типом customer или business.
// Создаётся вместе с пользователем при регистрации, ровно один на пользователя.
type Profile struct {
	UserID       uuid.UUID `db:"user_id" json:"user"`
	Type         string    `db:"type" json:"type"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	File         *string   `db:"file" json:"file,omitempty"`
	Location     string    `db:"location" json:"location"`
	Tel          string    `db:"tel" json:"tel"`
	Description  string    `db:"description" json:"description"`
	WorkingHours string    `db:"working_hours" json:"working_hours"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	// Поля из users, подтягиваются JOIN-ом при чтении профиля.
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}
