package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quiverhq/quiver/backend/internal/api/middleware"
	"github.com/quiverhq/quiver/backend/internal/domain/collection"
)

// Import documents are small; anything larger is a client mistake.
const maxImportBytes = 1 << 20

type collectionRequest struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// CreateCollection stores a new collection for the caller.
func (h *Handlers) CreateCollection(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req collectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	col, err := h.collections.Create(user.ID, req.Name, req.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, col)
}

// ListCollections returns the caller's collections.
func (h *Handlers) ListCollections(c *gin.Context) {
	user := middleware.UserFrom(c)

	cols, err := h.collections.List(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list collections"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": cols})
}

// GetCollection returns one collection by id.
func (h *Handlers) GetCollection(c *gin.Context) {
	user := middleware.UserFrom(c)

	col, err := h.collections.Get(user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection"})
		return
	}
	c.JSON(http.StatusOK, col)
}

// UpdateCollection replaces name and/or data of a collection.
func (h *Handlers) UpdateCollection(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req collectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	col, err := h.collections.Update(user.ID, c.Param("id"), req.Name, req.Data)
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, col)
}

// DeleteCollection removes a collection.
func (h *Handlers) DeleteCollection(c *gin.Context) {
	user := middleware.UserFrom(c)

	if err := h.collections.Delete(user.ID, c.Param("id")); err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete collection"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ImportCollection accepts a JSON or YAML collection document as the raw
// request body, selected by Content-Type.
func (h *Handlers) ImportCollection(c *gin.Context) {
	user := middleware.UserFrom(c)

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil || len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "import document is required"})
		return
	}

	col, err := h.collections.Import(user.ID, c.ContentType(), raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, col)
}
