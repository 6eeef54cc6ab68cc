// Package environment manages named variable sets for the request composer.
package environment

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/quiverhq/quiver/backend/internal/shared/id"
	"github.com/quiverhq/quiver/backend/internal/shared/utils"
	"github.com/quiverhq/quiver/backend/internal/storage"
)

// ErrNotFound is returned when an environment does not exist for the user.
var ErrNotFound = errors.New("environment not found")

// Manager provides per-user environment CRUD over the storage handle.
type Manager struct {
	db *storage.DB
}

// NewManager creates an environment manager.
func NewManager(db *storage.DB) *Manager {
	return &Manager{db: db}
}

// Create stores a new environment with its variables.
func (m *Manager) Create(userID, name string, variables map[string]string) (*storage.Environment, error) {
	if err := utils.ValidateName(name, "name"); err != nil {
		return nil, err
	}
	if variables == nil {
		variables = map[string]string{}
	}
	encoded, err := json.Marshal(variables)
	if err != nil {
		return nil, fmt.Errorf("failed to encode variables: %w", err)
	}

	env := &storage.Environment{
		ID:        id.NewEnvironmentID(),
		UserID:    userID,
		Name:      name,
		Variables: string(encoded),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := m.db.Conn().Create(env).Error; err != nil {
		return nil, fmt.Errorf("failed to persist environment: %w", err)
	}
	return env, nil
}

// Get returns one environment owned by the user.
func (m *Manager) Get(userID, envID string) (*storage.Environment, error) {
	var env storage.Environment
	err := m.db.Conn().Where("id = ? AND user_id = ?", envID, userID).First(&env).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &env, nil
}

// List returns the user's environments, newest first.
func (m *Manager) List(userID string) ([]storage.Environment, error) {
	var envs []storage.Environment
	err := m.db.Conn().Where("user_id = ?", userID).Order("created_at DESC").Find(&envs).Error
	return envs, err
}

// Update replaces name and/or variables of an existing environment.
func (m *Manager) Update(userID, envID, name string, variables map[string]string) (*storage.Environment, error) {
	env, err := m.Get(userID, envID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		if err := utils.ValidateName(name, "name"); err != nil {
			return nil, err
		}
		env.Name = name
	}
	if variables != nil {
		encoded, err := json.Marshal(variables)
		if err != nil {
			return nil, fmt.Errorf("failed to encode variables: %w", err)
		}
		env.Variables = string(encoded)
	}
	env.UpdatedAt = time.Now()
	if err := m.db.Conn().Save(env).Error; err != nil {
		return nil, err
	}
	return env, nil
}

// Delete removes an environment owned by the user.
func (m *Manager) Delete(userID, envID string) error {
	res := m.db.Conn().Delete(&storage.Environment{}, "id = ? AND user_id = ?", envID, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
