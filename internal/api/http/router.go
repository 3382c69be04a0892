package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Ask            *handlers.AskHandler
	Gatherer       prometheus.Gatherer
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Dashboard routes keep their historical
// top-level paths.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	requireToken := cfg.AuthMiddleware.Handle
	app.Get("/tickets", requireToken, cfg.Tickets.ListTickets)
	app.Post("/create_ticket", requireToken, cfg.Tickets.CreateTicket)
	app.Post("/ask", requireToken, cfg.Ask.Ask)
}
