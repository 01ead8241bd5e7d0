package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/contacts-api/internal/utils"
)

const (
	userIDKey   = "userID"
	usernameKey = "username"
)

// Identity is the caller as asserted by a verified token.
type Identity struct {
	ID       string
	Username string
}

type identityCtxKey struct{}

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*utils.Claims, error)
}

// AuthMiddleware rejects requests without a bearer token (401) or with an
// invalid or expired one (403).
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access Denied"})
			return
		}

		claims, err := verifier.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid Token"})
			return
		}

		id := Identity{ID: claims.UserID, Username: claims.Username}
		c.Set(userIDKey, id.ID)
		c.Set(usernameKey, id.Username)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), identityCtxKey{}, id))

		c.Next()
	}
}

// CurrentUser returns the identity set by AuthMiddleware.
func CurrentUser(c *gin.Context) (Identity, bool) {
	id, ok := c.Request.Context().Value(identityCtxKey{}).(Identity)
	return id, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
