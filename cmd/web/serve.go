package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"orderdesk.io/app/internal/config"
	"orderdesk.io/app/internal/contentapi"
	"orderdesk.io/app/internal/database"
	"orderdesk.io/app/internal/events"
	"orderdesk.io/app/internal/http/flash"
	"orderdesk.io/app/internal/http/router"
	"orderdesk.io/app/internal/http/session"
	"orderdesk.io/app/internal/imageurl"
	"orderdesk.io/app/internal/mailer"
	"orderdesk.io/app/internal/modules/auth"
	"orderdesk.io/app/internal/modules/email"
	"orderdesk.io/app/internal/modules/orders"
	"orderdesk.io/app/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	listeners, closeListeners, err := buildListeners(cfg, log)
	if err != nil {
		return err
	}
	defer closeListeners()

	var images imageurl.Resolver
	if res, err := imageurl.FromConfig(ctx, cfg.Images, cfg.Content); err != nil {
		log.Warn("image_resolver_disabled", logger.Error(err))
	} else {
		images = res.Resolver
		log.Info("image_resolver_ready", logger.String("driver", res.Driver))
	}

	flashSecret := cfg.Session.FlashSecret
	if flashSecret == "" {
		flashSecret = cfg.Session.Secret
	}

	registry := orders.NewRegistry(store, log, listeners...)
	registry.SetTTL(cfg.Session.MaxAge)

	engine, err := router.New(router.Deps{
		Log:      log,
		Sessions: session.NewCookieStore([]byte(cfg.Session.Secret), cfg.Session.CookieName, cfg.Session.Secure, cfg.Session.MaxAge),
		Flash:    flash.NewCodec([]byte(flashSecret), "", cfg.Session.Secure),
		Verifier: auth.NewBcryptVerifier(cfg.Admin.Email, cfg.Admin.PasswordHash),
		Registry: registry,
		Images:   images,
		Currency: cfg.App.Currency,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http_server_started",
			logger.String("addr", cfg.HTTP.Addr),
			logger.String("store", cfg.Store.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("http_server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (orders.Store, func(), error) {
	switch cfg.Store.Driver {
	case "mysql":
		db, err := database.OpenMySQL(cfg.MySQL)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return orders.NewRepo(db), closeFn, nil

	case "postgres":
		pool, err := database.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := orders.NewPgRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		return repo, pool.Close, nil

	case "content":
		client, err := contentapi.NewClient(cfg.Content)
		if err != nil {
			return nil, nil, fmt.Errorf("content api client: %w", err)
		}
		log.Info("content_store_ready", logger.String("dataset", cfg.Content.Dataset))
		return contentapi.NewOrderStore(client), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_DRIVER: %s", cfg.Store.Driver)
}

func buildListeners(cfg *config.Config, log logger.Logger) ([]orders.Listener, func(), error) {
	var (
		listeners []orders.Listener
		closers   []func()
	)

	if cfg.SMTP.MailEnabled() {
		m := mailer.NewSMTPMailer(cfg.SMTP)
		listeners = append(listeners, email.NewStatusMailer(m, cfg.Mail.From, cfg.Mail.FromName, log))
	}

	if cfg.Kafka.Enabled() {
		pub, err := events.NewKafkaPublisher(cfg.Kafka, log)
		if err != nil {
			return nil, nil, err
		}
		listeners = append(listeners, pub)
		closers = append(closers, pub.Close)
	}

	return listeners, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}
