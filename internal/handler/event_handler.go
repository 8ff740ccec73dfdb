package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"GreenArmy/internal/middleware"
	"GreenArmy/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc    *service.EventService
	logger *slog.Logger
}

// CreateEventReq 创建活动请求体
type CreateEventReq struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Date             string   `json:"date"`
	Address          string   `json:"address"`
	Lat              *float64 `json:"lat"`
	Lng              *float64 `json:"lng"`
	ImageURL         string   `json:"imageUrl"`
	Status           string   `json:"status"`
	AcceptDonations  bool     `json:"acceptDonations"`
	AcceptVolunteers bool     `json:"acceptVolunteers"`
}

func NewEventHandler(svc *service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{svc: svc, logger: logger}
}

// List 活动列表，带 lat/lng 时按距离排序
func (h *EventHandler) List(c *gin.Context) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	var lat, lng float64
	nearby := latStr != "" || lngStr != ""
	if nearby {
		var err1, err2 error
		lat, err1 = strconv.ParseFloat(latStr, 64)
		lng, err2 = strconv.ParseFloat(lngStr, 64)
		if err1 != nil || err2 != nil {
			badRequest(c, "lat and lng must both be valid numbers")
			return
		}
	}

	list, err := h.svc.ListEvents(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if nearby {
		service.SortByProximity(list, lat, lng)
	}
	c.JSON(http.StatusOK, list)
}

func (h *EventHandler) Get(c *gin.Context) {
	ev, err := h.svc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Create 创建活动接口
func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	id, err := h.svc.CreateEvent(c.Request.Context(), middleware.CallerFrom(c), service.CreateEventCommand{
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date,
		Address:          req.Address,
		Lat:              req.Lat,
		Lng:              req.Lng,
		ImageURL:         req.ImageURL,
		Status:           req.Status,
		AcceptDonations:  req.AcceptDonations,
		AcceptVolunteers: req.AcceptVolunteers,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Delete 删除活动接口
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteEvent(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
