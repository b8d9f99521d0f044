package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/p-karari/hms-sub002/internal/apperrors"
	"github.com/p-karari/hms-sub002/internal/middleware"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError maps err to a status code and error kind. Store failures are
// logged and reported without internal detail.
func respondError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.HTTPStatus(err)
	kind := apperrors.Kind(err)

	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: kind, Message: msg})
		return
	}
	logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, ErrorResponse{Error: kind, Message: err.Error()})
}

func respondBindError(c *gin.Context, err error, msg string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ValidationError", Message: err.Error()})
}

// actorHandle returns the acting user handle or writes a 401.
func actorHandle(c *gin.Context) (string, bool) {
	handle, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Acting user not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Message: "Unauthorized"})
		return "", false
	}
	return handle, true
}

// idParam parses a positive integer path parameter or writes a 400.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid path parameter", slog.String("param", name), slog.String("value", c.Param(name)))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ValidationError", Message: "invalid " + name})
		return 0, false
	}
	return id, true
}
