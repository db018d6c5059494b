package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuongbtq/labour-market/internal/api/dto"
	"github.com/cuongbtq/labour-market/internal/api/service"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/upload"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// TokenParser turns a bearer token into the authenticated actor
type TokenParser interface {
	Parse(token string) (domain.Actor, error)
}

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger  *slog.Logger
	Service *service.Service
	Uploads *upload.Storage
	Tokens  TokenParser

	// DB is nil when the in-memory store is used
	DB HealthChecker

	// Redis is nil when rate limiting is disabled
	Redis           *redis.Client
	RateLimitPerSec int
}

const actorKey = "actor"

// SetActor stores the authenticated actor on the request context
func SetActor(c *gin.Context, actor domain.Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the actor set by the auth middleware
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

func mustActor(c *gin.Context) domain.Actor {
	actor, _ := ActorFrom(c)
	return actor
}

var kindStatus = map[string]int{
	"not_found":           http.StatusNotFound,
	"precondition_failed": http.StatusConflict,
	"validation_failed":   http.StatusBadRequest,
	"conflict":            http.StatusConflict,
	"unauthorized":        http.StatusUnauthorized,
	"forbidden":           http.StatusForbidden,
}

// StatusFor maps an error to its HTTP status code
func StatusFor(err error) int {
	if isUploadError(err) {
		return http.StatusBadRequest
	}
	if status, ok := kindStatus[domain.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func isUploadError(err error) bool {
	return errors.Is(err, upload.ErrFileRequired) ||
		errors.Is(err, upload.ErrFileTooLarge) ||
		errors.Is(err, upload.ErrInvalidFileType) ||
		errors.Is(err, upload.ErrInvalidDataURL)
}

// respondError writes the error body; internal errors are logged and masked
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		c.JSON(status, dto.ErrorResponse{Error: "Internal server error", Code: "internal"})
		return
	}

	code := domain.KindOf(err)
	if isUploadError(err) {
		code = "validation_failed"
	}
	c.JSON(status, dto.ErrorResponse{Error: err.Error(), Code: code})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: message, Code: "validation_failed"})
}

// discardUpload removes a file saved for a request the service then rejected
func discardUpload(logger *slog.Logger, uploads *upload.Storage, path string) {
	if path == "" {
		return
	}
	if err := uploads.Remove(path); err != nil {
		logger.Warn("Failed to remove rejected upload", slog.String("path", path), slog.Any("error", err))
	}
}
