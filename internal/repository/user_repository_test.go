package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/coderr-backend/internal/models"
)

func TestUserRepository_UpdateProfile_Success(t *testing.T) {
	db, smock := newMockDB(t)
	repo := NewUserRepository(db)

	profile := &models.Profile{
		UserID:    uuid.New(),
		FirstName: "Анна",
		Email:     "anna@example.com",
	}

	smock.ExpectBegin()
	smock.ExpectExec("UPDATE profiles").
		WithArgs(profile.UserID, profile.FirstName, profile.LastName, profile.File,
			profile.Location, profile.Tel, profile.Description, profile.WorkingHours).
		WillReturnResult(sqlmock.NewResult(0, 1))
	smock.ExpectExec("UPDATE users SET email").
		WithArgs(profile.UserID, profile.Email).
		WillReturnResult(sqlmock.NewResult(0, 1))
	smock.ExpectCommit()

	err := repo.UpdateProfile(context.Background(), profile)

	require.NoError(t, err)
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestUserRepository_UpdateProfile_EmailTaken(t *testing.T) {
	db, smock := newMockDB(t)
	repo := NewUserRepository(db)

	profile := &models.Profile{
		UserID: uuid.New(),
		Email:  "taken@example.com",
	}

	// Смена email на уже зарегистрированный упирается в уникальное
	// ограничение users.email и не должна маскироваться под внутреннюю ошибку.
	smock.ExpectBegin()
	smock.ExpectExec("UPDATE profiles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	smock.ExpectExec("UPDATE users SET email").
		WithArgs(profile.UserID, profile.Email).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	smock.ExpectRollback()

	err := repo.UpdateProfile(context.Background(), profile)

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, smock.ExpectationsWereMet())
}
