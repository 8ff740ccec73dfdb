package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"GreenArmy/internal/model"
	"GreenArmy/internal/pkg"
	"GreenArmy/internal/service"

	"github.com/gin-gonic/gin"
)

const ContextCallerKey = "caller"

// IdentityGate 从 Bearer 头或会话 cookie 解析调用者；无效令牌按匿名处理
func IdentityGate(tokens *pkg.TokenIssuer, sessions service.SessionStore, cookieName string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := model.Caller{}
		if tokenStr := extractToken(c, cookieName); tokenStr != "" {
			if claims, err := tokens.Parse(tokenStr); err == nil {
				if sessionActive(c, sessions, claims.UserID, tokenStr, logger) {
					caller = model.Caller{
						UserID: claims.UserID,
						Email:  claims.Email,
						Name:   claims.Name,
						Role:   model.Role(claims.Role),
					}
				}
			}
		}
		c.Set(ContextCallerKey, caller)
		c.Next()
	}
}

// RequireAuth 必须登录的接口
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerFrom(c).IsAnonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "login required",
				"code":  service.KindUnauthenticated,
			})
			return
		}
		c.Next()
	}
}

func CallerFrom(c *gin.Context) model.Caller {
	if v, ok := c.Get(ContextCallerKey); ok {
		if caller, ok := v.(model.Caller); ok {
			return caller
		}
	}
	return model.Caller{}
}

func extractToken(c *gin.Context, cookieName string) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	if v, err := c.Cookie(cookieName); err == nil {
		return v
	}
	return ""
}

// sessionActive 令牌必须是该用户当前登记的那一个，在别处登录后旧令牌失效
func sessionActive(c *gin.Context, sessions service.SessionStore, userID, token string, logger *slog.Logger) bool {
	if sessions == nil {
		return true
	}
	stored, err := sessions.Get(c.Request.Context(), userID)
	if err != nil {
		logger.Debug("session lookup failed", "user_id", userID, "error", err)
		return false
	}
	return stored == token
}
