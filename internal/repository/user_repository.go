package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/coderr-backend/internal/models"
)

// Ошибки уровня репозитория.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailTaken      = errors.New("email already taken")
)

// UserRepository отвечает за работу с таблицами users и profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithProfile создаёт пользователя и его профиль одной транзакцией.
// Либо создаются обе записи, либо ни одной.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("user repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	userQuery := `
		INSERT INTO users (username, email, password_hash, is_staff)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, created_at, updated_at
	`
	if err = tx.QueryRowxContext(
		ctx, userQuery,
		user.Username, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create user %w", err)
	}

	profile.UserID = user.ID

	profileQuery := `
		INSERT INTO profiles (user_id, type, first_name, last_name, location, tel, description, working_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	if err = tx.QueryRowxContext(
		ctx, profileQuery,
		profile.UserID, profile.Type, profile.FirstName, profile.LastName,
		profile.Location, profile.Tel, profile.Description, profile.WorkingHours,
	).Scan(&profile.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create profile %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("user repository: commit %w", err)
	}

	profile.Username = user.Username
	profile.Email = user.Email

	return nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}
	return &user, nil
}

// GetByUsername возвращает пользователя по имени.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by username %w", err)
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}
	return &user, nil
}

// GetProfile возвращает профиль пользователя вместе с username и email.
func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	query := `
		SELECT p.user_id, p.type, p.first_name, p.last_name, p.file, p.location, p.tel,
		       p.description, p.working_hours, p.created_at, u.username, u.email
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("user repository: get profile %w", err)
	}
	return &profile, nil
}

// UpdateProfile обновляет поля профиля и email пользователя одной транзакцией.
func (r *UserRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("user repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	profileQuery := `
		UPDATE profiles
		SET first_name = $2, last_name = $3, file = $4, location = $5, tel = $6,
		    description = $7, working_hours = $8
		WHERE user_id = $1
	`
	if _, err = tx.ExecContext(
		ctx, profileQuery,
		profile.UserID, profile.FirstName, profile.LastName, profile.File,
		profile.Location, profile.Tel, profile.Description, profile.WorkingHours,
	); err != nil {
		return fmt.Errorf("user repository: update profile %w", err)
	}

	if _, err = tx.ExecContext(
		ctx, `UPDATE users SET email = $2, updated_at = NOW() WHERE id = $1`,
		profile.UserID, profile.Email,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			err = ErrEmailTaken
			return err
		}
		return fmt.Errorf("user repository: update email %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("user repository: commit %w", err)
	}

	return nil
}

// ListProfilesByType возвращает профили указанного типа.
func (r *UserRepository) ListProfilesByType(ctx context.Context, profileType string) ([]models.Profile, error) {
	var profiles []models.Profile
	query := `
		SELECT p.user_id, p.type, p.first_name, p.last_name, p.file, p.location, p.tel,
		       p.description, p.working_hours, p.created_at, u.username, u.email
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.type = $1
		ORDER BY p.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &profiles, query, profileType); err != nil {
		return nil, fmt.Errorf("user repository: list profiles by type %w", err)
	}
	return profiles, nil
}
