package service

import (
	"context"
	"fmt"

	"github.com/ignatzorin/coderr-backend/internal/models"
)

// StatsStore описывает зависимость StatsService от слоя хранилища.
type StatsStore interface {
	GetBaseInfo(ctx context.Context) (*models.BaseInfo, error)
}

// StatsService отдаёт публичную статистику платформы.
type StatsService struct {
	repo StatsStore
}

// NewStatsService создаёт сервис статистики.
func NewStatsService(repo StatsStore) *StatsService {
	return &StatsService{repo: repo}
}

// GetBaseInfo возвращает агрегированные показатели без побочных эффектов.
func (s *StatsService) GetBaseInfo(ctx context.Context) (*models.BaseInfo, error) {
	info, err := s.repo.GetBaseInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats service: %w", err)
	}
	return info, nil
}
