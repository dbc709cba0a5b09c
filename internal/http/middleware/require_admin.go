package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orderdesk.io/app/internal/http/flash"
	"orderdesk.io/app/internal/http/session"
	"orderdesk.io/app/pkg/view"
)

const CtxKeyAdminToken = "admin_token"

// Tokens tells whether an admin token is still signed in.
type Tokens interface {
	Active(token string) bool
}

// RequireAdmin lets a request through only when the session carries a
// complete admin marker whose token is still active. HTML clients are sent
// to the login page with a warning, JSON clients get 401.
func RequireAdmin(sessions session.Store, tokens Tokens, flashCodec *flash.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := sessions.Load(c.Request)
		if !m.Valid() || !tokens.Active(m.AdminToken) {
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":      "authentication required",
					"request_id": GetRequestID(c),
				})
				return
			}

			SetFlashCookie(c, flashCodec, view.Flash{
				Kind:    view.FlashWarning,
				Message: "Please sign in to manage orders.",
			})
			c.Redirect(http.StatusFound, "/admin")
			c.Abort()
			return
		}

		c.Set(CtxKeyAdminToken, m.AdminToken)
		c.Next()
	}
}

// AdminToken returns the token RequireAdmin put on the context.
func AdminToken(c *gin.Context) string {
	return c.GetString(CtxKeyAdminToken)
}
