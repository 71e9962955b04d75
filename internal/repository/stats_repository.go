package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/coderr-backend/internal/models"
)

// StatsRepository собирает агрегированную статистику платформы.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository создаёт новый экземпляр.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetBaseInfo возвращает публичную статистику. На пустой базе все счётчики
// нулевые, средняя оценка равна 0.0.
func (r *StatsRepository) GetBaseInfo(ctx context.Context) (*models.BaseInfo, error) {
	var info models.BaseInfo
	query := `
		SELECT
			(SELECT COUNT(*) FROM reviews)                                   AS review_count,
			(SELECT COALESCE(AVG(rating), 0) FROM reviews)                   AS average_rating,
			(SELECT COUNT(*) FROM profiles WHERE type = 'business')          AS business_profile_count,
			(SELECT COUNT(*) FROM offers)                                    AS offer_count,
			(SELECT COUNT(*) FROM profiles)                                  AS profile_count
	`
	if err := r.db.GetContext(ctx, &info, query); err != nil {
		return nil, fmt.Errorf("stats repository: base info %w", err)
	}

	// Средняя оценка отдаётся с точностью до одного знака.
	info.AverageRating = math.Round(info.AverageRating*10) / 10

	return &info, nil
}
