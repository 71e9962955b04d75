package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/coderr-backend/internal/http/handlers/common"
	"github.com/ignatzorin/coderr-backend/internal/service"
)

// StatsHandler отдаёт публичную статистику платформы.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler создаёт новый хэндлер.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GetBaseInfo обрабатывает GET /base-info.
func (h *StatsHandler) GetBaseInfo(c *gin.Context) {
	info, err := h.stats.GetBaseInfo(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
