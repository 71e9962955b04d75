package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ignatzorin/coderr-backend/internal/models"
)

// TokenManager отвечает за выпуск и проверку JWT.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate выпускает access токен для пользователя.
func (m *TokenManager) Generate(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"staff": user.IsStaff,
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse извлекает идентификатор пользователя и признак сотрудника из токена.
func (m *TokenManager) Parse(token string) (uuid.UUID, bool, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, false, err
	}
	if !parsed.Valid {
		return uuid.Nil, false, jwt.ErrTokenInvalidClaims
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false, jwt.ErrTokenInvalidClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, false, jwt.ErrTokenInvalidClaims
	}

	staff, _ := claims["staff"].(bool)

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, false, err
	}

	return userID, staff, nil
}
