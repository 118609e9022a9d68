package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/hoshichaam/pasal_storefront_go/internal/config"
	"github.com/hoshichaam/pasal_storefront_go/internal/handlers"
	"github.com/hoshichaam/pasal_storefront_go/internal/logging"
	"github.com/hoshichaam/pasal_storefront_go/internal/middleware"
	"github.com/hoshichaam/pasal_storefront_go/internal/services"
	"github.com/hoshichaam/pasal_storefront_go/internal/session"
	"github.com/hoshichaam/pasal_storefront_go/pkg/errutil"
)

func main() {
	// 1) Config (.env dibaca di config.Load)
	cfg := config.Load()
	logger := logging.Setup(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	// 2) Fail-fast kalau BACKEND_BASEURL / SESSION_SECRET kosong
	if err := cfg.Validate(); err != nil {
		errutil.LogError(logger, "invalid configuration", err)
		os.Exit(1)
	}

	app, err := buildApp(cfg, logger)
	if err != nil {
		errutil.LogError(logger, "startup failed", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting server", "addr", addr, "backend", cfg.BackendBaseURL, "cors", cfg.CORSOrigins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(addr); err != nil {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logger.Info("shutdown signal received, stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

func buildApp(cfg config.Config, logger *slog.Logger) (*fiber.App, error) {
	// 3) Init dependencies
	codec, err := session.NewCodec(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	sessions := session.NewManager(codec, session.DefaultHooks(), !cfg.IsDev(), logger)

	backend := services.NewIdentityClient(cfg.BackendBaseURL, cfg.BackendTimeout)
	authorizer := services.NewCredentialAuthorizer(backend, logger)
	resetter := services.NewPasswordResetOrchestrator(backend, logger)

	// 4) Init handlers
	authHandler := handlers.NewAuthHandler(authorizer, sessions, logger)
	passwordHandler := handlers.NewPasswordHandler(resetter, logger)

	// 5) Fiber app dengan timeout
	app := fiber.New(fiber.Config{
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowCredentials: true,
	}))

	// 6) Routes
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	api := app.Group("/api")
	api.Post("/auth/login", middleware.SessionOptional(sessions), authHandler.Login)
	api.Get("/auth/session", middleware.SessionOptional(sessions), authHandler.Session)
	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/account", middleware.SessionRequired(sessions), authHandler.Session)
	api.Post("/password/strength", passwordHandler.Strength)

	app.Get("/auth/change-password", passwordHandler.ChangePasswordPage)
	app.Post("/auth/change-password", passwordHandler.ChangePassword)

	return app, nil
}
