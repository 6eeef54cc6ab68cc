// Package http contains the gin handlers for the public API surface.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quiverhq/quiver/backend/internal/auth"
	"github.com/quiverhq/quiver/backend/internal/domain/collection"
	"github.com/quiverhq/quiver/backend/internal/domain/environment"
	"github.com/quiverhq/quiver/backend/internal/domain/history"
	"github.com/quiverhq/quiver/backend/internal/infrastructure/logging"
	"github.com/quiverhq/quiver/backend/internal/proxy"
)

// Version is reported by the root and health endpoints.
const Version = "1.0.0"

// Handlers contains all HTTP handlers.
type Handlers struct {
	relay        *proxy.Relay
	authSvc      *auth.Service
	collections  *collection.Manager
	environments *environment.Manager
	history      *history.Manager
	logger       *logging.Logger
	production   bool
}

// NewHandlers creates a new handler set.
func NewHandlers(
	relay *proxy.Relay,
	authSvc *auth.Service,
	collections *collection.Manager,
	environments *environment.Manager,
	hist *history.Manager,
	logger *logging.Logger,
	production bool,
) *Handlers {
	return &Handlers{
		relay:        relay,
		authSvc:      authSvc,
		collections:  collections,
		environments: environments,
		history:      hist,
		logger:       logger,
		production:   production,
	}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Quiver Relay",
		"version": Version,
	})
}

// Health handles the health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": Version,
	})
}
