// Package collection manages saved request collections.
package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"gorm.io/gorm"

	"github.com/quiverhq/quiver/backend/internal/shared/id"
	"github.com/quiverhq/quiver/backend/internal/shared/utils"
	"github.com/quiverhq/quiver/backend/internal/storage"
)

// ErrNotFound is returned when a collection does not exist for the user.
var ErrNotFound = errors.New("collection not found")

// ImportRequest is one request inside an imported collection document.
type ImportRequest struct {
	Name     string            `json:"name" yaml:"name"`
	Method   string            `json:"method" yaml:"method"`
	URL      string            `json:"url" yaml:"url"`
	Headers  map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body     string            `json:"body,omitempty" yaml:"body,omitempty"`
	BodyType string            `json:"bodyType,omitempty" yaml:"bodyType,omitempty"`
}

// ImportDocument is the accepted import payload, in JSON or YAML form.
type ImportDocument struct {
	Name     string          `json:"name" yaml:"name"`
	Requests []ImportRequest `json:"requests" yaml:"requests"`
}

// Manager provides per-user collection CRUD over the storage handle.
type Manager struct {
	db *storage.DB
}

// NewManager creates a collection manager.
func NewManager(db *storage.DB) *Manager {
	return &Manager{db: db}
}

// Create stores a new collection. data must be a valid JSON document.
func (m *Manager) Create(userID, name, data string) (*storage.Collection, error) {
	if err := utils.ValidateName(name, "name"); err != nil {
		return nil, err
	}
	if data == "" {
		data = "{}"
	}
	if !json.Valid([]byte(data)) {
		return nil, fmt.Errorf("collection data must be valid JSON")
	}

	col := &storage.Collection{
		ID:        id.NewCollectionID(),
		UserID:    userID,
		Name:      name,
		Data:      data,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := m.db.Conn().Create(col).Error; err != nil {
		return nil, fmt.Errorf("failed to persist collection: %w", err)
	}
	return col, nil
}

// Get returns one collection owned by the user.
func (m *Manager) Get(userID, colID string) (*storage.Collection, error) {
	var col storage.Collection
	err := m.db.Conn().Where("id = ? AND user_id = ?", colID, userID).First(&col).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// List returns the user's collections, newest first.
func (m *Manager) List(userID string) ([]storage.Collection, error) {
	var cols []storage.Collection
	err := m.db.Conn().Where("user_id = ?", userID).Order("created_at DESC").Find(&cols).Error
	return cols, err
}

// Update replaces name and/or data of an existing collection.
func (m *Manager) Update(userID, colID, name, data string) (*storage.Collection, error) {
	col, err := m.Get(userID, colID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		if err := utils.ValidateName(name, "name"); err != nil {
			return nil, err
		}
		col.Name = name
	}
	if data != "" {
		if !json.Valid([]byte(data)) {
			return nil, fmt.Errorf("collection data must be valid JSON")
		}
		col.Data = data
	}
	col.UpdatedAt = time.Now()
	if err := m.db.Conn().Save(col).Error; err != nil {
		return nil, err
	}
	return col, nil
}

// Delete removes a collection owned by the user.
func (m *Manager) Delete(userID, colID string) error {
	res := m.db.Conn().Delete(&storage.Collection{}, "id = ? AND user_id = ?", colID, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Import parses a JSON or YAML collection document and stores it. The
// format is chosen by the request Content-Type; anything that is not YAML
// is treated as JSON.
func (m *Manager) Import(userID, contentType string, raw []byte) (*storage.Collection, error) {
	var doc ImportDocument
	if isYAML(contentType) {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML document: %w", err)
		}
	} else {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON document: %w", err)
		}
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	// Stored canonically as JSON regardless of the import format.
	data, err := sonic.Marshal(map[string]interface{}{"requests": doc.Requests})
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	return m.Create(userID, doc.Name, string(data))
}

func isYAML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "yaml") || strings.Contains(ct, "yml")
}
