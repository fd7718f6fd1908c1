// Package routes defines the API routing configuration.
package routes

import (
	"tally/internal/handlers"
	"tally/internal/services/account"
	"tally/internal/services/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services the routes are wired to.
type Dependencies struct {
	Accounts  account.Service
	Transfers transfer.Service
	Health    *handlers.HealthHandler
	Gatherer  prometheus.Gatherer
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	if deps.Health == nil {
		deps.Health = handlers.NewHealthHandler("dev", nil)
	}
	app.Get("/health", deps.Health.HealthCheck)

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	accountHandler := handlers.NewAccountHandler(deps.Accounts)
	transferHandler := handlers.NewTransferHandler(deps.Transfers)

	v1 := app.Group("/v1")
	accounts := v1.Group("/accounts")
	accounts.Post("/", accountHandler.Create)
	accounts.Post("/transfer", transferHandler.Transfer)
	accounts.Get("/:id", accountHandler.Get)
}
