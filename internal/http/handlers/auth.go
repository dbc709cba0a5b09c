package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"orderdesk.io/app/internal/http/flash"
	"orderdesk.io/app/internal/http/middleware"
	"orderdesk.io/app/internal/http/render"
	"orderdesk.io/app/internal/http/session"
	"orderdesk.io/app/internal/http/validation"
	"orderdesk.io/app/internal/modules/auth"
	"orderdesk.io/app/internal/modules/orders"
	"orderdesk.io/app/internal/shared/apperr"
	"orderdesk.io/app/pkg/logger"
	"orderdesk.io/app/pkg/view"
)

const (
	LoginPath     = "/admin"
	DashboardPath = "/admin/dashboard"
)

type AuthHandler struct {
	Sessions session.Store
	Verifier auth.Verifier
	Registry *orders.Registry
	Flash    *flash.Codec
	Log      logger.Logger
}

func NewAuthHandler(sessions session.Store, verifier auth.Verifier, registry *orders.Registry, f *flash.Codec, log logger.Logger) *AuthHandler {
	return &AuthHandler{Sessions: sessions, Verifier: verifier, Registry: registry, Flash: f, Log: log}
}

type loginInput struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

func (h *AuthHandler) Get(c *gin.Context) {
	if m := h.Sessions.Load(c.Request); m.Valid() && h.Registry.Active(m.AdminToken) {
		c.Redirect(http.StatusFound, DashboardPath)
		return
	}
	render.Page(c, http.StatusOK, "login.html", view.LoginPage{Flash: middleware.GetFlash(c)})
}

func (h *AuthHandler) Post(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBind(&in); err != nil {
		render.Page(c, http.StatusBadRequest, "login.html", view.LoginPage{
			Form:   view.LoginForm{Email: in.Email},
			Errors: validation.FromBindError(err, &in),
		})
		return
	}

	if err := h.Verifier.Verify(c.Request.Context(), in.Email, in.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			_ = c.Error(apperr.Wrap(err))
			return
		}
		h.Log.Warn("admin_sign_in_rejected", logger.String("client_ip", c.ClientIP()))
		render.Page(c, http.StatusUnauthorized, "login.html", view.LoginPage{
			Form:    view.LoginForm{Email: in.Email},
			Message: "Invalid email or password.",
		})
		return
	}

	m := session.NewMarker()
	if err := h.Sessions.Save(c.Writer, c.Request, m); err != nil {
		_ = c.Error(apperr.Wrap(err))
		return
	}
	h.Registry.Issue(m.AdminToken)

	h.Log.Info("admin_signed_in", logger.String("request_id", middleware.GetRequestID(c)))
	c.Redirect(http.StatusFound, DashboardPath)
}

// Logout revokes the session's token, drops its console and clears the marker. The admin is
// sent to the login page even when clearing fails.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Registry.Close(middleware.AdminToken(c))

	f := view.Flash{Kind: view.FlashInfo, Title: "Signed out", Message: "You have been signed out."}
	if err := h.Sessions.Clear(c.Writer, c.Request); err != nil {
		h.Log.Error("admin_sign_out_failed",
			logger.String("request_id", middleware.GetRequestID(c)),
			logger.Error(err),
		)
		f = view.Flash{Kind: view.FlashError, Title: "Sign-out failed", Message: "Your session could not be cleared completely."}
	}

	render.RedirectWithFlash(c, h.Flash, LoginPath, f)
}
