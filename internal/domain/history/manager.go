// Package history records executed relay requests and streams summaries to
// connected UI clients.
package history

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
	"gorm.io/gorm"

	"github.com/quiverhq/quiver/backend/internal/infrastructure/monitoring"
	"github.com/quiverhq/quiver/backend/internal/proxy"
	"github.com/quiverhq/quiver/backend/internal/shared/id"
	"github.com/quiverhq/quiver/backend/internal/storage"
)

// ErrNotFound is returned when a history entry does not exist for the user.
var ErrNotFound = errors.New("history entry not found")

// DefaultListLimit bounds history queries without an explicit limit.
const DefaultListLimit = 100

// Publisher receives one event per recorded entry.
type Publisher interface {
	Publish(eventType string, payload interface{})
}

// Manager provides per-user history persistence over the storage handle.
type Manager struct {
	db      *storage.DB
	pub     Publisher
	metrics *monitoring.Metrics
}

// NewManager creates a history manager.
func NewManager(db *storage.DB) *Manager {
	return &Manager{db: db}
}

// WithPublisher attaches a live-event publisher.
func (m *Manager) WithPublisher(pub Publisher) *Manager {
	m.pub = pub
	return m
}

// WithMetrics attaches a metrics collector.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Record persists the outcome of one relay invocation and publishes a
// summary event.
func (m *Manager) Record(userID string, d proxy.Descriptor, env *proxy.Envelope) (*storage.HistoryEntry, error) {
	entry := &storage.HistoryEntry{
		ID:         id.NewHistoryID(),
		UserID:     userID,
		Method:     d.Method,
		URL:        d.URL,
		Status:     env.Status,
		DurationMs: env.Time,
		Size:       env.Size,
		CreatedAt:  time.Now(),
	}
	if err := m.db.Conn().Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to persist history entry: %w", err)
	}

	if m.metrics != nil {
		m.metrics.RecordHistory()
	}
	if m.pub != nil {
		m.pub.Publish("history.recorded", entry)
	}
	return entry, nil
}

// List returns the user's most recent entries, newest first.
func (m *Manager) List(userID string, limit int) ([]storage.HistoryEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = DefaultListLimit
	}
	var entries []storage.HistoryEntry
	err := m.db.Conn().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// Delete removes one entry owned by the user.
func (m *Manager) Delete(userID, entryID string) error {
	res := m.db.Conn().Delete(&storage.HistoryEntry{}, "id = ? AND user_id = ?", entryID, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes all of the user's entries.
func (m *Manager) Clear(userID string) error {
	return m.db.Conn().Delete(&storage.HistoryEntry{}, "user_id = ?", userID).Error
}

// Export writes the user's full history, oldest first, as gzip-compressed
// JSON to w.
func (m *Manager) Export(userID string, w io.Writer) error {
	var entries []storage.HistoryEntry
	if err := m.db.Conn().
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return err
	}

	encoded, err := sonic.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	gz := gzip.NewWriter(w)
	if _, err := gz.Write(encoded); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// IsNotFound reports whether err means a missing entry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
