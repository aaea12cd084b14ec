package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalKey = "principal"

var ErrBadCredentials = errors.New("bad credentials")

// Authenticator resolves credentials into a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (Principal, error)
}

// BasicAuth authenticates every request with HTTP basic credentials and
// stores the resulting Principal on the gin context.
func BasicAuth(a Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="cardstore"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		p, err := a.Authenticate(c.Request.Context(), email, password)
		if err != nil {
			if !errors.Is(err, ErrBadCredentials) {
				logger.Error("authenticate", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireRole rejects principals without the role. It must run after BasicAuth.
func RequireRole(r Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := FromGin(c)
		if !ok || !p.HasRole(r) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func FromGin(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
