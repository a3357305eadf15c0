// README: Session middleware; every request carries a UUID session id in X-Session-ID.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderSessionID = "X-Session-ID"
	sessionKey      = "voyage.session_id"
)

// Session accepts the caller's X-Session-ID when it is a UUID and mints a new
// one otherwise. The id is echoed on every response.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderSessionID)
		if parsed, err := uuid.Parse(id); err == nil {
			id = parsed.String()
		} else {
			id = uuid.NewString()
		}
		c.Set(sessionKey, id)
		c.Header(HeaderSessionID, id)
		c.Next()
	}
}

// SessionID returns the id set by Session, or "" when the middleware did not run.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
