package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strings"

	"GreenArmy/internal/middleware"
	"GreenArmy/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LedgerHandler 报名、捐款、动态接口
type LedgerHandler struct {
	participation *service.ParticipationService
	donations     *service.DonationService
	activities    *service.ActivityService
	logger        *slog.Logger
}

type DonateReq struct {
	Amount decimal.Decimal `json:"amount"`
}

type PostActivityReq struct {
	Description  string     `json:"description"`
	ImageURL     *string    `json:"imageUrl"`
	TreesPlanted *treeCount `json:"treesPlanted"`
}

// treeCount 接受数字或数字字符串，小数截断，无法解析按 0 计
type treeCount int64

func (n *treeCount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		*n = 0
		return nil
	}
	d = d.Truncate(0)
	switch {
	case d.GreaterThan(decimal.NewFromInt(math.MaxInt64)):
		*n = math.MaxInt64
	case d.IsNegative():
		*n = 0
	default:
		*n = treeCount(d.IntPart())
	}
	return nil
}

func (n *treeCount) int64Ptr() *int64 {
	if n == nil {
		return nil
	}
	v := int64(*n)
	return &v
}

func NewLedgerHandler(p *service.ParticipationService, d *service.DonationService, a *service.ActivityService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{participation: p, donations: d, activities: a, logger: logger}
}

func (h *LedgerHandler) Join(c *gin.Context) {
	if err := h.participation.Join(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *LedgerHandler) Donate(c *gin.Context) {
	var req DonateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	if err := h.donations.Donate(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), req.Amount); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *LedgerHandler) PostActivity(c *gin.Context) {
	var req PostActivityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	id, err := h.activities.PostActivity(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), service.PostActivityCommand{
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		TreesPlanted: req.TreesPlanted.int64Ptr(),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *LedgerHandler) ListParticipants(c *gin.Context) {
	list, err := h.participation.ListParticipants(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *LedgerHandler) ListDonations(c *gin.Context) {
	list, err := h.donations.ListDonations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *LedgerHandler) ListActivities(c *gin.Context) {
	list, err := h.activities.ListActivities(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
