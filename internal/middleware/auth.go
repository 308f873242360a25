package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/megumiii12/athlete/internal/models"
	"github.com/megumiii12/athlete/internal/service"
)

// ContextUserKey is where the resolved profile lives in the gin context.
const ContextUserKey = "current_user"

// TokenResolver maps a bearer token to its owner's public profile.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (models.PublicUser, error)
}

// SessionAuth guards routes with the opaque session token. The session
// cookie wins when present; only when it is absent does the
// Authorization header get read. Exactly one source per request, never
// both merged.
func SessionAuth(cookieName string, resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		user, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// CurrentUser pulls the profile stored by SessionAuth.
func CurrentUser(c *gin.Context) (models.PublicUser, bool) {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return models.PublicUser{}, false
	}
	user, ok := value.(models.PublicUser)
	return user, ok
}
