package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orderdesk.io/app/internal/http/flash"
	"orderdesk.io/app/internal/http/middleware"
	"orderdesk.io/app/pkg/view"
)

// Page renders one of the embedded templates by file name.
func Page(c *gin.Context, status int, name string, data any) {
	c.HTML(status, name, data)
}

func RedirectWithFlash(c *gin.Context, codec *flash.Codec, location string, f view.Flash) {
	middleware.SetFlashCookie(c, codec, f)
	c.Redirect(http.StatusFound, location)
}
