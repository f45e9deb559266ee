package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hyx1081487532/firefly-comments/internal/models"
	"github.com/hyx1081487532/firefly-comments/internal/service"
	"github.com/hyx1081487532/firefly-comments/internal/validation"
	"github.com/rs/zerolog"
)

// AdminHandler handles the moderation endpoints
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// List handles GET /api/admin/comments?status=...
// Returns full records including email, ip and user agent.
func (h *AdminHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	status := models.Status(c.Query("status"))
	comments, err := h.services.Moderation.List(ctx, status)
	if err != nil {
		h.log.Error().Err(err).Msg("Admin listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// Export handles GET /api/admin/comments/export
func (h *AdminHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=comments.csv")

	if err := h.services.Moderation.ExportCSV(ctx, c.Writer); err != nil {
		// Headers are already out; nothing useful can be sent to the caller
		h.log.Error().Err(err).Msg("CSV export failed")
	}
}

// Action handles POST /api/admin/comments/:id/:action
// for approve, reject and edit
func (h *AdminHandler) Action(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path"})
		return
	}

	switch c.Param("action") {
	case "approve":
		err = h.services.Moderation.Approve(ctx, id)
	case "reject":
		err = h.services.Moderation.Reject(ctx, id)
	case "edit":
		var req models.EditRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
		upd, verr := validation.ValidateEdit(&req)
		if verr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		err = h.services.Moderation.Edit(ctx, id, upd)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	if err != nil {
		h.log.Error().Err(err).Int64("id", id).Str("action", c.Param("action")).Msg("Moderation action failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete handles DELETE /api/admin/comments/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path"})
		return
	}

	if err := h.services.Moderation.Delete(ctx, id); err != nil {
		h.log.Error().Err(err).Int64("id", id).Msg("Delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
