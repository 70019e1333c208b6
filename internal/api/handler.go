package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/joeyma/commitrank/internal/errors"
	"github.com/joeyma/commitrank/internal/storage"
)

// Handler handles API requests
type Handler struct {
	store storage.Store
}

// NewHandler creates a new API handler
func NewHandler(store storage.Store) *Handler {
	return &Handler{
		store: store,
	}
}

// GetCommits returns archived commits, optionally filtered by repository
// GET /api/v1/commits?repository=org/name&limit=100
func (h *Handler) GetCommits(c *gin.Context) {
	repository := c.Query("repository")
	limit := parseLimit(c, "limit", 100)

	commits, err := h.store.GetCommits(c.Request.Context(), repository, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": commits,
	})
}

// GetTopRanked returns the highest-scored commits
// GET /api/v1/rankings/top?limit=10
func (h *Handler) GetTopRanked(c *gin.Context) {
	limit := parseLimit(c, "limit", 10)

	ranked, err := h.store.GetTopRanked(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": ranked,
	})
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// parseLimit parses a positive integer query parameter with a default
func parseLimit(c *gin.Context, key string, defaultValue int) int {
	value, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(defaultValue)))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// respondError sends an error response
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeUnauthorized:
			status = http.StatusUnauthorized
		case apperrors.ErrCodeTransient:
			status = http.StatusServiceUnavailable
		case apperrors.ErrCodeParse, apperrors.ErrCodeConfig:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": err.Error(),
		},
	})
}
