package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiverhq/quiver/backend/internal/storage"
)

func testDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(testDB(t), time.Hour)

	user, err := svc.Register("alice", "correct-horse", "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	token, loggedIn, err := svc.Login("alice", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc := NewService(testDB(t), time.Hour)

	_, err := svc.Register("alice", "correct-horse", "")
	require.NoError(t, err)

	_, err = svc.Register("alice", "other-password", "")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := NewService(testDB(t), time.Hour)

	tests := []struct {
		name     string
		username string
		password string
		email    string
	}{
		{"short username", "ab", "correct-horse", ""},
		{"invalid username characters", "ali ce!", "correct-horse", ""},
		{"short password", "alice", "short", ""},
		{"invalid email", "alice", "correct-horse", "not-an-email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.username, tt.password, tt.email)
			assert.Error(t, err)
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := NewService(testDB(t), time.Hour)

	_, err := svc.Register("alice", "correct-horse", "")
	require.NoError(t, err)

	for name, attempt := range map[string][2]string{
		"unknown user":   {"nobody", "correct-horse"},
		"wrong password": {"alice", "wrong-password"},
		"empty password": {"alice", ""},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Login(attempt[0], attempt[1])
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(testDB(t), time.Hour)

	user, err := svc.Register("alice", "correct-horse", "")
	require.NoError(t, err)
	token, _, err := svc.Login("alice", "correct-horse")
	require.NoError(t, err)

	resolved, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = svc.Authenticate("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Authenticate("bogus-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	svc := NewService(testDB(t), -time.Minute)
	// Negative TTL falls back to the default; force it to issue already
	// expired sessions instead.
	svc.ttl = -time.Minute

	_, err := svc.Register("alice", "correct-horse", "")
	require.NoError(t, err)
	token, _, err := svc.Login("alice", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// The expired session is deleted on sight, so a second attempt fails
	// as unknown rather than expired.
	_, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	svc := NewService(testDB(t), time.Hour)

	_, err := svc.Register("alice", "correct-horse", "")
	require.NoError(t, err)
	token, _, err := svc.Login("alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(token))

	_, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Unknown tokens are a no-op.
	assert.NoError(t, svc.Logout("does-not-exist"))
}
