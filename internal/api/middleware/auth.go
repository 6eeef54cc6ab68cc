package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quiverhq/quiver/backend/internal/storage"
)

// ContextUserKey is the gin context key holding the authenticated user.
const ContextUserKey = "auth.user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(token string) (*storage.User, error)
}

// BearerToken extracts the token from an Authorization header, or "" when
// absent or malformed.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth rejects requests without a valid session token and stores the
// resolved user in the context for handlers.
func RequireAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		user, err := authn.Authenticate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// UserFrom returns the authenticated user stored by RequireAuth, or nil.
func UserFrom(c *gin.Context) *storage.User {
	val, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := val.(*storage.User)
	return user
}
