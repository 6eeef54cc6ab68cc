package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quiverhq/quiver/backend/internal/api/middleware"
	"github.com/quiverhq/quiver/backend/internal/proxy"
)

// Proxy executes one relay invocation. The endpoint is a single action, not
// a REST resource, so every method other than POST is refused outright.
func (h *Handlers) Proxy(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	var descriptor proxy.Descriptor
	if err := c.ShouldBindJSON(&descriptor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request descriptor"})
		return
	}

	envelope, relayErr := h.relay.Do(c.Request.Context(), descriptor)
	if relayErr != nil {
		h.renderRelayError(c, relayErr)
		return
	}

	// History is best-effort and only for authenticated callers. The relay
	// result is returned regardless of whether recording succeeds.
	if token := middleware.BearerToken(c); token != "" {
		if user, err := h.authSvc.Authenticate(token); err == nil {
			if _, err := h.history.Record(user.ID, descriptor, envelope); err != nil && h.logger != nil {
				h.logger.Warn("failed to record history entry",
					zap.String("user_id", user.ID),
					zap.Error(err),
				)
			}
		}
	}

	c.JSON(http.StatusOK, envelope)
}

// renderRelayError maps a classified relay failure onto the error body.
// Underlying transport details are exposed only outside production.
func (h *Handlers) renderRelayError(c *gin.Context, relayErr *proxy.Error) {
	body := gin.H{"error": relayErr.Message}
	if !h.production && relayErr.Err != nil {
		body["details"] = relayErr.Err.Error()
	}
	c.JSON(relayErr.Status, body)
}
