// Package id provides centralized ID generation for the backend.
//
// IDs are prefixed ULIDs: lexicographically sortable, so timeline queries on
// history need no extra timestamp column, and the prefix makes logs readable
// (usr_*, col_*, env_*, his_*).
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entity prefixes.
const (
	UserPrefix        = "usr"
	CollectionPrefix  = "col"
	EnvironmentPrefix = "env"
	HistoryPrefix     = "his"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator backed by crypto/rand.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator(rand.Reader)
	})
	return defaultGenerator
}

// NewGenerator creates a generator with the given entropy source. Tests can
// pass a deterministic reader.
func NewGenerator(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewUserID generates a new user ID.
func NewUserID() string { return Default().GenerateWithPrefix(UserPrefix) }

// NewCollectionID generates a new collection ID.
func NewCollectionID() string { return Default().GenerateWithPrefix(CollectionPrefix) }

// NewEnvironmentID generates a new environment ID.
func NewEnvironmentID() string { return Default().GenerateWithPrefix(EnvironmentPrefix) }

// NewHistoryID generates a new history entry ID.
func NewHistoryID() string { return Default().GenerateWithPrefix(HistoryPrefix) }
