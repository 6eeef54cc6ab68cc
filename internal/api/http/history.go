package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quiverhq/quiver/backend/internal/api/middleware"
	"github.com/quiverhq/quiver/backend/internal/domain/history"
)

// ListHistory returns the caller's most recent entries, newest first. The
// optional limit query parameter caps the result.
func (h *Handlers) ListHistory(c *gin.Context) {
	user := middleware.UserFrom(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	entries, err := h.history.List(user.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// DeleteHistoryEntry removes one entry by id.
func (h *Handlers) DeleteHistoryEntry(c *gin.Context) {
	user := middleware.UserFrom(c)

	if err := h.history.Delete(user.ID, c.Param("id")); err != nil {
		if history.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "history entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete history entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearHistory removes all of the caller's entries.
func (h *Handlers) ClearHistory(c *gin.Context) {
	user := middleware.UserFrom(c)

	if err := h.history.Clear(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ExportHistory streams the caller's full history as gzip-compressed JSON.
func (h *Handlers) ExportHistory(c *gin.Context) {
	user := middleware.UserFrom(c)

	filename := "quiver-history-" + time.Now().Format("2006-01-02") + ".json.gz"
	c.Header("Content-Type", "application/gzip")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.history.Export(user.ID, c.Writer); err != nil && h.logger != nil {
		// Headers are already flushed; all we can do is log.
		h.logger.Warn("history export failed", zap.Error(err))
	}
}
