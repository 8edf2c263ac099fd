package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextSessionID is the key for the visitor session id in gin context.
	ContextSessionID = "session_id"

	sessionCookie = "park_sid"
)

// Session assigns each visitor an opaque session id cookie, used as the key
// for in-progress application drafts. The id carries no identity; it only
// has to be stable across the form → confirm → submit requests.
func Session(secure bool, maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, _ := c.Cookie(sessionCookie)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.New().String()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, sid, maxAgeSeconds, "/", "", secure, true)
		c.Set(ContextSessionID, sid)
		c.Next()
	}
}

// SessionID returns the visitor session id set by Session.
func SessionID(c *gin.Context) string {
	sid, _ := c.Get(ContextSessionID)
	s, _ := sid.(string)
	return s
}
