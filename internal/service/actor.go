package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/coderr-backend/internal/models"
	"github.com/ignatzorin/coderr-backend/internal/policy"
	"github.com/ignatzorin/coderr-backend/internal/repository"
)

// ProfileProvider отдаёт профиль для построения актора авторизации.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// resolveActor собирает актора из данных токена и профиля из хранилища.
// Отсутствующий профиль не ошибка: актор без профиля отклоняется позже
// ролевыми проверками с отдельным сообщением.
func resolveActor(ctx context.Context, profiles ProfileProvider, userID uuid.UUID, isStaff bool) (policy.Actor, error) {
	actor := policy.Actor{UserID: userID, IsStaff: isStaff}

	profile, err := profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return actor, nil
		}
		return actor, fmt.Errorf("resolve actor: %w", err)
	}

	actor.Profile = profile
	return actor, nil
}
