package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hyx1081487532/firefly-comments/internal/models"
	"github.com/hyx1081487532/firefly-comments/internal/service"
	"github.com/hyx1081487532/firefly-comments/internal/validation"
	"github.com/rs/zerolog"
)

// CommentHandler handles the public comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comments").Logger(),
	}
}

// ListPublic handles GET /api/comments?url=...&limit=...
// Only approved comments are served, and only the public projection.
func (h *CommentHandler) ListPublic(c *gin.Context) {
	ctx := c.Request.Context()

	urlParam := c.Query("url")
	if urlParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url required"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		limit = 100
	}

	comments, err := h.services.Comments.ListPublic(ctx, urlParam, limit)
	if err != nil {
		h.log.Error().Err(err).Str("url", urlParam).Msg("Public listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// Submit handles POST /api/comments
func (h *CommentHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	if c.ContentType() != "application/json" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "content-type must be application/json"})
		return
	}

	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	sub, verr := validation.ValidateSubmission(&req)
	if verr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
		return
	}

	sub.IP = clientIP(c)
	if ua := c.GetHeader("User-Agent"); ua != "" {
		sub.UserAgent = &ua
	}

	id, err := h.services.Comments.Submit(ctx, sub)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
			return
		}
		h.log.Error().Err(err).Str("url", sub.URL).Msg("Submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": id})
}

// clientIP resolves the submitting address, falling back to a fixed
// marker so the rate limiter always has a key to count against
func clientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
