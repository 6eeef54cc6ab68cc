package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// User is a registered account.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64" json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is an active bearer token. Never serialized to clients.
type Session struct {
	Token     string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Collection is a saved group of requests. Data holds the request tree as a
// JSON blob; the server never interprets it beyond validity.
type Collection struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"-"`
	Name      string    `json:"name"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Environment is a named set of variables. Variables holds a JSON object.
type Environment struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"-"`
	Name      string    `json:"name"`
	Variables string    `json:"variables"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HistoryEntry records one executed relay request.
type HistoryEntry struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index" json:"-"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	Status     int       `json:"status"`
	DurationMs int64     `json:"durationMs"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DB is the storage handle. It is constructed once at process start,
// injected into every consumer, and closed on shutdown. There is no
// package-level instance.
type DB struct {
	conn *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the schema. Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*DB, error) {
	if !strings.HasPrefix(path, ":") && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create storage directory: %w", err)
			}
		}
	}

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.AutoMigrate(
		&User{},
		&Session{},
		&Collection{},
		&Environment{},
		&HistoryEntry{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Conn exposes the underlying gorm handle to domain managers.
func (d *DB) Conn() *gorm.DB {
	return d.conn
}

// Close releases the pooled connection.
func (d *DB) Close() error {
	sqlDB, err := d.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
