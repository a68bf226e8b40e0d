// Command mockapi runs an in-memory stand-in for the user, delivery and
// location backends, so the client layer can be exercised end to end with
// zero infrastructure. Fixtures are seeded at startup; nothing survives a
// restart.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rc-foods/courier-client/internal/config"
	"github.com/rc-foods/courier-client/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	addr := os.Getenv("MOCKAPI_ADDR")
	if addr == "" {
		addr = "127.0.0.1:4000"
	}
	secret := os.Getenv("MOCKAPI_JWT_SECRET")
	if secret == "" {
		secret = "mockapi-dev-secret"
	}

	backend, err := newBackend(secret, logger)
	if err != nil {
		logger.Fatal("failed to seed fixtures", zap.Error(err))
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	backend.registerRoutes(app)

	go func() {
		logger.Info("mockapi listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
