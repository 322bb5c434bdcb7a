package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photoshare/internal/auth"
	"photoshare/internal/config"
	"photoshare/internal/handlers"
	"photoshare/internal/logging"
	"photoshare/internal/metrics"
	"photoshare/internal/services"
	"photoshare/internal/store"
	"photoshare/internal/storage"
	"photoshare/internal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 10 * time.Second

// Deps are the long-lived collaborators the HTTP layer is built from.
type Deps struct {
	Store   store.Store
	Files   storage.PhotoStorage
	Logger  logging.Logger
	Metrics *metrics.Metrics
	// Now replaces time.Now for token issuing and validation.
	Now func() time.Time
}

// New builds the fiber app with every route registered.
func New(cfg *config.Config, deps Deps) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	issuerOpts := []auth.IssuerOption{auth.WithCSRF(cfg.JWT.CookieCSRF)}
	if deps.Now != nil {
		issuerOpts = append(issuerOpts, auth.WithClock(deps.Now))
	}
	issuer := auth.NewIssuer([]byte(cfg.JWT.SecretKey), cfg.JWT.AccessTokenTTL, issuerOpts...)
	cookies := auth.CookieOptions{
		Secure:        cfg.SecureCookies(),
		SessionCookie: cfg.JWT.SessionCookie,
	}

	// Services
	userService := services.NewUserService(deps.Store, auth.NewPasswordHasher(cfg.BcryptCost), issuer)
	photoService := services.NewPhotoService(deps.Store, deps.Files, log)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:               "photoshare",
		Views:                 views.New(),
		ViewsLayout:           views.Layout,
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// Serve uploaded files
	if cfg.Storage.Backend == config.StorageLocal {
		app.Static("/uploads", cfg.Storage.UploadDir)
	}

	session := handlers.NewSession(issuer, m, log)
	authHandlers := handlers.NewAuthHandlers(userService, cookies, m, log)
	gate := session.RedirectIfAuthenticated()

	// Public Routes
	app.Get("/", gate, authHandlers.Index)
	app.Get("/login", gate, authHandlers.LoginPage)
	app.Post("/login", gate, authHandlers.Login)
	app.Get("/register", gate, authHandlers.RegisterPage)
	app.Post("/register", gate, authHandlers.Register)
	app.Post("/logout", authHandlers.Logout)

	app.Get("/upload", handlers.UploadPageHandler(photoService, session))
	app.Post("/upload", session.RequireSession(), handlers.UploadPhotoHandler(photoService, m))

	// Health Check
	app.Get("/health", handlers.HealthHandler)
	app.Get("/metrics", m.Handler())

	return app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	res, err := Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer res.Close()

	if cfg.SeedDemoData {
		if err := Seed(ctx, res.Store, cfg.BcryptCost, log); err != nil {
			return err
		}
	}

	app := New(cfg, Deps{Store: res.Store, Files: res.Files, Logger: log})

	// Start Server
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "port", cfg.Port, "env", cfg.Env, "db", cfg.DBDriver)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	// Graceful Shutdown
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info(context.Background(), "Gracefully shutting down...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info(context.Background(), "Server shutdown complete")
	return nil
}
