package history

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverhq/quiver/backend/internal/proxy"
	"github.com/quiverhq/quiver/backend/internal/storage"
)

type capturingPublisher struct {
	events []string
}

func (p *capturingPublisher) Publish(eventType string, payload interface{}) {
	p.events = append(p.events, eventType)
}

func testManager(t *testing.T) *Manager {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewManager(db)
}

func sampleEnvelope(status int) *proxy.Envelope {
	return &proxy.Envelope{
		Status:      status,
		StatusText:  "OK",
		Data:        `{"ok":true}`,
		Time:        42,
		Size:        11,
		ContentType: "application/json",
	}
}

func TestRecordAndList(t *testing.T) {
	m := testManager(t)
	pub := &capturingPublisher{}
	m.WithPublisher(pub)

	d := proxy.Descriptor{Method: "GET", URL: "https://api.example.com/users"}
	entry, err := m.Record("usr_1", d, sampleEnvelope(200))
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, []string{"history.recorded"}, pub.events)

	entries, err := m.List("usr_1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://api.example.com/users", entries[0].URL)
	assert.Equal(t, 200, entries[0].Status)
	assert.Equal(t, int64(42), entries[0].DurationMs)
}

func TestListNewestFirstAndLimited(t *testing.T) {
	m := testManager(t)

	for i := 0; i < 5; i++ {
		d := proxy.Descriptor{Method: "GET", URL: "https://example.com"}
		env := sampleEnvelope(200 + i)
		_, err := m.Record("usr_1", d, env)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond) // distinct created_at ordering
	}

	entries, err := m.List("usr_1", 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 204, entries[0].Status)
	assert.Equal(t, 202, entries[2].Status)
}

func TestDeleteAndClear(t *testing.T) {
	m := testManager(t)

	d := proxy.Descriptor{Method: "GET", URL: "https://example.com"}
	entry, err := m.Record("usr_1", d, sampleEnvelope(200))
	require.NoError(t, err)

	assert.ErrorIs(t, m.Delete("usr_other", entry.ID), ErrNotFound)
	require.NoError(t, m.Delete("usr_1", entry.ID))
	assert.ErrorIs(t, m.Delete("usr_1", entry.ID), ErrNotFound)

	_, err = m.Record("usr_1", d, sampleEnvelope(200))
	require.NoError(t, err)
	_, err = m.Record("usr_1", d, sampleEnvelope(201))
	require.NoError(t, err)
	require.NoError(t, m.Clear("usr_1"))

	entries, err := m.List("usr_1", 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportEmitsGzipJSON(t *testing.T) {
	m := testManager(t)

	d := proxy.Descriptor{Method: "POST", URL: "https://api.example.com/orders"}
	_, err := m.Record("usr_1", d, sampleEnvelope(201))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Export("usr_1", &buf))

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	raw, err := io.ReadAll(gz)
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	var entries []storage.HistoryEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "POST", entries[0].Method)
	assert.Equal(t, 201, entries[0].Status)
}
