package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"GreenArmy/internal/service"

	"github.com/gin-gonic/gin"
)

type RankHandler struct {
	svc    *service.RankService
	logger *slog.Logger
}

func NewRankHandler(svc *service.RankService, logger *slog.Logger) *RankHandler {
	return &RankHandler{svc: svc, logger: logger}
}

// Leaderboard 排行榜，limit 非法时使用默认值
func (h *RankHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	lb, err := h.svc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, lb)
}
