// Package auth implements account registration and bearer-token sessions.
// Every protected endpoint authenticates through the single
// Service.Authenticate capability instead of re-implementing token checks.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/quiverhq/quiver/backend/internal/shared/id"
	"github.com/quiverhq/quiver/backend/internal/shared/utils"
	"github.com/quiverhq/quiver/backend/internal/storage"
)

var (
	// ErrInvalidCredentials is returned for any login failure. It never
	// reveals which credential was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned for unknown or malformed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for sessions past their TTL.
	ErrTokenExpired = errors.New("token expired")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")
)

// Service manages users and sessions over the injected storage handle.
type Service struct {
	db  *storage.DB
	ttl time.Duration
}

// NewService creates an auth service. ttl bounds session lifetime.
func NewService(db *storage.DB, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{db: db, ttl: ttl}
}

// Register creates a new user account.
func (s *Service) Register(username, password, email string) (*storage.User, error) {
	if err := utils.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := utils.ValidateEmail(email, false); err != nil {
		return nil, err
	}

	var existing storage.User
	err := s.db.Conn().Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %w", err)
	}

	user := &storage.User{
		ID:           id.NewUserID(),
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		CreatedAt:    time.Now(),
	}
	if err := s.db.Conn().Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and opens a session, returning its token.
func (s *Service) Login(username, password string) (string, *storage.User, error) {
	// Validation failures deliberately collapse into the generic error.
	if utils.ValidateUsername(username) != nil || utils.ValidatePassword(password) != nil {
		return "", nil, ErrInvalidCredentials
	}

	var user storage.User
	if err := s.db.Conn().Where("username = ?", username).First(&user).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := generateToken()
	session := &storage.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.Conn().Create(session).Error; err != nil {
		return "", nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return token, &user, nil
}

// Logout ends the session for the token. Unknown tokens are a no-op.
func (s *Service) Logout(token string) error {
	return s.db.Conn().Delete(&storage.Session{}, "token = ?", token).Error
}

// Authenticate resolves a bearer token to its user. Expired sessions are
// deleted on sight.
func (s *Service) Authenticate(token string) (*storage.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var session storage.Session
	if err := s.db.Conn().Where("token = ?", token).First(&session).Error; err != nil {
		return nil, ErrInvalidToken
	}
	if time.Now().After(session.ExpiresAt) {
		s.db.Conn().Delete(&storage.Session{}, "token = ?", token)
		return nil, ErrTokenExpired
	}

	var user storage.User
	if err := s.db.Conn().Where("id = ?", session.UserID).First(&user).Error; err != nil {
		return nil, ErrInvalidToken
	}
	return &user, nil
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// If crypto/rand fails we must not fall back to weak randomness.
		panic(fmt.Sprintf("crypto/rand failed: %v - cannot generate secure token", err))
	}
	return base64.URLEncoding.EncodeToString(b)
}
