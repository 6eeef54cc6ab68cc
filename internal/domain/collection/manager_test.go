package collection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverhq/quiver/backend/internal/storage"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewManager(db)
}

func TestCollectionCRUD(t *testing.T) {
	m := testManager(t)

	col, err := m.Create("usr_1", "My API", `{"requests":[]}`)
	require.NoError(t, err)
	assert.NotEmpty(t, col.ID)

	got, err := m.Get("usr_1", col.ID)
	require.NoError(t, err)
	assert.Equal(t, "My API", got.Name)

	updated, err := m.Update("usr_1", col.ID, "Renamed", "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, `{"requests":[]}`, updated.Data)

	list, err := m.List("usr_1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, m.Delete("usr_1", col.ID))
	_, err = m.Get("usr_1", col.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionOwnershipIsEnforced(t *testing.T) {
	m := testManager(t)

	col, err := m.Create("usr_owner", "Private", "{}")
	require.NoError(t, err)

	_, err = m.Get("usr_other", col.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Delete("usr_other", col.ID), ErrNotFound)
}

func TestCollectionCreateRejectsInvalidInput(t *testing.T) {
	m := testManager(t)

	_, err := m.Create("usr_1", "", "{}")
	assert.Error(t, err)

	_, err = m.Create("usr_1", "Broken", "{not json")
	assert.Error(t, err)
}

func TestImportJSON(t *testing.T) {
	m := testManager(t)

	doc := `{"name":"Imported","requests":[{"name":"Get users","method":"GET","url":"https://api.example.com/users"}]}`
	col, err := m.Import("usr_1", "application/json", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Imported", col.Name)

	var stored struct {
		Requests []ImportRequest `json:"requests"`
	}
	require.NoError(t, json.Unmarshal([]byte(col.Data), &stored))
	require.Len(t, stored.Requests, 1)
	assert.Equal(t, "GET", stored.Requests[0].Method)
}

func TestImportYAML(t *testing.T) {
	m := testManager(t)

	doc := "name: From YAML\nrequests:\n  - name: Create user\n    method: POST\n    url: https://api.example.com/users\n    body: '{\"name\":\"x\"}'\n    bodyType: json\n"
	col, err := m.Import("usr_1", "application/yaml", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "From YAML", col.Name)

	var stored struct {
		Requests []ImportRequest `json:"requests"`
	}
	require.NoError(t, json.Unmarshal([]byte(col.Data), &stored))
	require.Len(t, stored.Requests, 1)
	assert.Equal(t, "POST", stored.Requests[0].Method)
	assert.Equal(t, "json", stored.Requests[0].BodyType)
}

func TestImportRejectsNamelessDocument(t *testing.T) {
	m := testManager(t)

	_, err := m.Import("usr_1", "application/json", []byte(`{"requests":[]}`))
	assert.Error(t, err)
}
