package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/app"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/pkg/sessioncookie"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/transport/http/response"
)

const ContextIdentityKey = "session_identity"

// RequireSession is a pure gate: it parses the signed session cookie (or a
// Bearer token carrying the same payload) and rejects requests without one.
// It never consults the store; handlers that need row freshness re-read the
// Session themselves.
func RequireSession(cookieName, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := rawSessionValue(c, cookieName)
		if raw == "" {
			response.Error(c, 401, response.CodeUnauthorized, "no active session")
			c.Abort()
			return
		}

		claims, err := sessioncookie.Parse(secret, raw)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, app.Identity{Token: claims.Token, Name: claims.Name})
		c.Next()
	}
}

func rawSessionValue(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if strings.HasPrefix(authHeader, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	}
	return ""
}

// IdentityFrom fetches the session context set by RequireSession.
func IdentityFrom(c *gin.Context) (app.Identity, bool) {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return app.Identity{}, false
	}
	ident, ok := value.(app.Identity)
	return ident, ok
}
