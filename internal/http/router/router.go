package router

import (
	"github.com/gin-gonic/gin"

	"orderdesk.io/app/internal/http/flash"
	"orderdesk.io/app/internal/http/handlers"
	"orderdesk.io/app/internal/http/handlers/admin"
	"orderdesk.io/app/internal/http/middleware"
	"orderdesk.io/app/internal/http/session"
	"orderdesk.io/app/internal/imageurl"
	"orderdesk.io/app/internal/modules/auth"
	"orderdesk.io/app/internal/modules/orders"
	"orderdesk.io/app/pkg/logger"
	"orderdesk.io/app/templates"
)

type Deps struct {
	Log      logger.Logger
	Sessions session.Store
	Flash    *flash.Codec
	Verifier auth.Verifier
	Registry *orders.Registry
	Images   imageurl.Resolver
	Currency string
}

func New(d Deps) (*gin.Engine, error) {
	tmpl, err := templates.Load()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		middleware.ErrorHandler(d.Log),
		middleware.Recovery(d.Log),
		middleware.FlashMiddleware(d.Flash),
	)

	r.GET("/healthz", handlers.Health)

	authH := handlers.NewAuthHandler(d.Sessions, d.Verifier, d.Registry, d.Flash, d.Log)
	consoleH := admin.NewConsoleHandler(d.Registry, d.Images, d.Flash, d.Currency, d.Log)
	guard := middleware.RequireAdmin(d.Sessions, d.Registry, d.Flash)

	r.GET("/admin", authH.Get)
	r.POST("/admin/login", authH.Post)

	a := r.Group("/admin", guard)
	{
		a.POST("/logout", authH.Logout)
		a.GET("/dashboard", consoleH.Dashboard)
		a.POST("/orders/:id/toggle", consoleH.Toggle)
		a.POST("/orders/:id/status", consoleH.Status)
		a.POST("/orders/:id/delete", consoleH.Delete)
	}

	api := r.Group("/api/admin", guard)
	{
		api.GET("/orders", consoleH.APIList)
		api.PATCH("/orders/:id/status", consoleH.APIStatus)
		api.DELETE("/orders/:id", consoleH.APIDelete)
	}

	return r, nil
}
