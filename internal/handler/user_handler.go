package handler

import (
	"log/slog"
	"net/http"

	"GreenArmy/internal/middleware"
	"GreenArmy/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc          *service.UserService
	cookieName   string
	secureCookie bool
	logger       *slog.Logger
}

// RegisterReq 注册请求体
type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewUserHandler(svc *service.UserService, cookieName string, secureCookie bool, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, cookieName: cookieName, secureCookie: secureCookie, logger: logger}
}

// Register 注册接口
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	res, err := h.svc.Register(c.Request.Context(), service.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.setSession(c, res.Token)
	c.JSON(http.StatusCreated, gin.H{"user": res.User, "token": res.Token, "expiresAt": res.ExpiresAt})
}

// Login 登录接口
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	res, err := h.svc.Login(c.Request.Context(), service.LoginCommand{Email: req.Email, Password: req.Password})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.setSession(c, res.Token)
	c.JSON(http.StatusOK, gin.H{"user": res.User, "token": res.Token, "expiresAt": res.ExpiresAt})
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.CallerFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MyEvents tab=joined|created
func (h *UserHandler) MyEvents(c *gin.Context) {
	list, err := h.svc.MyEvents(c.Request.Context(), middleware.CallerFrom(c), c.Query("tab"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UserHandler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, token, int(h.svc.TokenTTL().Seconds()), "/", "", h.secureCookie, true)
}
