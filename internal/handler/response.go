package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"GreenArmy/internal/middleware"
	"GreenArmy/internal/service"

	"github.com/gin-gonic/gin"
)

// statusOf 业务错误到 HTTP 状态码，Conflict 和 Rejected 都是 400
func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindInvalidInput, service.KindConflict, service.KindRejected:
		return http.StatusBadRequest
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindInternal, Msg: "internal server error", Err: err}
	}
	status := statusOf(se.Kind)
	if status == http.StatusInternalServerError {
		requestID, _ := c.Get(middleware.ContextRequestIDKey)
		logger.Error("request failed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(status, gin.H{"error": "internal server error", "code": service.KindInternal})
		return
	}
	c.JSON(status, gin.H{"error": se.Msg, "code": se.Kind})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": service.KindInvalidInput})
}
