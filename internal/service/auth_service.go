package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/ignatzorin/coderr-backend/internal/models"
	"github.com/ignatzorin/coderr-backend/internal/pkg/apperror"
	"github.com/ignatzorin/coderr-backend/internal/repository"
	"github.com/ignatzorin/coderr-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	RepeatedPassword string
	Type             string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Username string
	Password string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	Token string
	User  *models.User
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Register создаёт пользователя вместе с профилем выбранного типа.
// Пользователь и профиль пишутся одной транзакцией: аккаунт без профиля
// в результате регистрации возникнуть не может.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.Password != in.RepeatedPassword {
		return nil, apperror.New(apperror.ErrCodeValidation, "пароли не совпадают")
	}
	if err := validation.ValidateProfileType(in.Type); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "имя пользователя уже занято")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "email уже зарегистрирован")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        email,
		PasswordHash: string(passHash),
	}
	profile := &models.Profile{
		Type: in.Type,
	}

	if err := s.repo.CreateWithProfile(ctx, user, profile); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	token, err := s.tokenManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Login проверяет учётные данные и возвращает токен.
// Несуществующий пользователь и неверный пароль отдают одинаковую ошибку.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if in.Username == "" || in.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.tokenManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}
