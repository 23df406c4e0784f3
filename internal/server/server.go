package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/railpay/railpay/internal/account"
	"github.com/railpay/railpay/internal/config"
	"github.com/railpay/railpay/internal/routes"
	"github.com/railpay/railpay/internal/transfer"
)

// Server wraps the Fiber application and its shared dependencies.
type Server struct {
	app *fiber.App
	cfg config.Config
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(cfg config.Config, cache *redis.Client, logger *slog.Logger, accounts *account.Ledger, transfers *transfer.Service) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	deps := routes.Deps{
		Cfg:       cfg,
		Cache:     cache,
		Logger:    logger,
		Accounts:  accounts,
		Transfers: transfers,
	}
	if err := routes.Setup(app, deps); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg}, nil
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
