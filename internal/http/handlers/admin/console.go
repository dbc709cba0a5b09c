package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"orderdesk.io/app/internal/http/flash"
	"orderdesk.io/app/internal/http/middleware"
	"orderdesk.io/app/internal/http/render"
	"orderdesk.io/app/internal/imageurl"
	"orderdesk.io/app/internal/modules/orders"
	"orderdesk.io/app/pkg/logger"
	"orderdesk.io/app/pkg/view"
)

const dashboardPath = "/admin/dashboard"

// ConsoleHandler serves the order console of the signed-in admin, both as
// HTML pages and as a JSON API.
type ConsoleHandler struct {
	Registry *orders.Registry
	Flash    *flash.Codec
	Log      logger.Logger

	pages pageBuilder
}

func NewConsoleHandler(registry *orders.Registry, images imageurl.Resolver, f *flash.Codec, currency string, log logger.Logger) *ConsoleHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ConsoleHandler{
		Registry: registry,
		Flash:    f,
		Log:      log,
		pages:    pageBuilder{images: images, currency: currency, log: log},
	}
}

func (h *ConsoleHandler) console(c *gin.Context) *orders.Console {
	return h.Registry.Open(c.Request.Context(), middleware.AdminToken(c))
}

func (h *ConsoleHandler) Dashboard(c *gin.Context) {
	con := h.console(c)
	if f, ok := c.GetQuery("filter"); ok {
		con.SetFilter(orders.Filter(f))
	}

	page := h.pages.dashboard(c.Request.Context(), con.View())
	page.Flash = middleware.GetFlash(c)
	render.Page(c, http.StatusOK, "dashboard.html", page)
}

func (h *ConsoleHandler) Toggle(c *gin.Context) {
	h.console(c).ToggleDetails(c.Param("id"))
	c.Redirect(http.StatusFound, dashboardPath)
}

func (h *ConsoleHandler) Status(c *gin.Context) {
	box := &noticeBox{}
	_, err := h.console(c).HandleStatus(c.Request.Context(), c.Param("id"), c.PostForm("status"), box)
	switch {
	case errors.Is(err, orders.ErrInvalidStatus):
		h.back(c, &view.Flash{Kind: view.FlashWarning, Message: "Choose pending, dispatch or success."})
	case errors.Is(err, orders.ErrOrderNotFound) && box.last == nil:
		h.back(c, &view.Flash{Kind: view.FlashWarning, Message: "That order is no longer listed."})
	default:
		h.back(c, box.flash())
	}
}

func (h *ConsoleHandler) Delete(c *gin.Context) {
	box := &noticeBox{}
	// a declined prompt leaves nothing to report
	_, _ = h.console(c).HandleDelete(c.Request.Context(), c.Param("id"), confirmation(c), box)
	h.back(c, box.flash())
}

func (h *ConsoleHandler) back(c *gin.Context, f *view.Flash) {
	if f == nil {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	render.RedirectWithFlash(c, h.Flash, dashboardPath, *f)
}
