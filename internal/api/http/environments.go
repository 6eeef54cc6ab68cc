package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quiverhq/quiver/backend/internal/api/middleware"
	"github.com/quiverhq/quiver/backend/internal/domain/environment"
)

type environmentRequest struct {
	Name      string            `json:"name"`
	Variables map[string]string `json:"variables"`
}

// CreateEnvironment stores a new variable set for the caller.
func (h *Handlers) CreateEnvironment(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req environmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	env, err := h.environments.Create(user.ID, req.Name, req.Variables)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, env)
}

// ListEnvironments returns the caller's environments.
func (h *Handlers) ListEnvironments(c *gin.Context) {
	user := middleware.UserFrom(c)

	envs, err := h.environments.List(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list environments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"environments": envs})
}

// GetEnvironment returns one environment by id.
func (h *Handlers) GetEnvironment(c *gin.Context) {
	user := middleware.UserFrom(c)

	env, err := h.environments.Get(user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, environment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load environment"})
		return
	}
	c.JSON(http.StatusOK, env)
}

// UpdateEnvironment replaces name and/or variables of an environment.
func (h *Handlers) UpdateEnvironment(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req environmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	env, err := h.environments.Update(user.ID, c.Param("id"), req.Name, req.Variables)
	if err != nil {
		if errors.Is(err, environment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, env)
}

// DeleteEnvironment removes an environment.
func (h *Handlers) DeleteEnvironment(c *gin.Context) {
	user := middleware.UserFrom(c)

	if err := h.environments.Delete(user.ID, c.Param("id")); err != nil {
		if errors.Is(err, environment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete environment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
