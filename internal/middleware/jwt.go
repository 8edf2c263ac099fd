package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kikuna-park/backend/internal/auth"
	"github.com/kikuna-park/backend/pkg/response"
)

// ContextEditor is the key for the admin editor name in gin context.
const ContextEditor = "editor"

// AdminJWT returns a middleware that validates the admin JWT and stores the
// editor name for change log attribution.
func AdminJWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextEditor, claims.Editor)
		c.Next()
	}
}

// Editor returns the editor name set by AdminJWT.
func Editor(c *gin.Context) string {
	v, _ := c.Get(ContextEditor)
	s, _ := v.(string)
	return s
}
