package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/railpay/railpay/internal/account"
	"github.com/railpay/railpay/internal/config"
	"github.com/railpay/railpay/internal/middleware"
	"github.com/railpay/railpay/internal/transfer"
)

// Deps aggregates the shared dependencies required to wire routes. The core
// collaborators are constructed in main and passed in explicitly.
type Deps struct {
	Cfg       config.Config
	Cache     *redis.Client
	Logger    *slog.Logger
	Accounts  *account.Ledger
	Transfers *transfer.Service
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	accountHandler := account.NewHandler(d.Accounts)
	transferHandler := transfer.NewHandler(d.Transfers)

	api := app.Group("/api/v1")
	RegisterAccountRoutes(api, accountHandler)
	RegisterTransferRoutes(api, transferHandler)

	return nil
}
