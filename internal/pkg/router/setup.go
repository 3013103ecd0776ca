package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ManuelReschke/PayFox/app/controllers"
)

// Router installs one group of routes.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Handlers carries the wired controllers the routers mount.
type Handlers struct {
	Payments *controllers.PaymentController
	Queue    *controllers.QueueController
	Health   *controllers.HealthController

	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// MetricsUsers enables basic auth on /metrics when not empty.
	MetricsUsers map[string]string
	// OperatorKeys guard the queue inspection API.
	OperatorKeys []string
	// LimiterStorage shares API rate limits between instances. Nil keeps
	// counters in memory.
	LimiterStorage fiber.Storage
}

func InstallRouter(app *fiber.App, h Handlers) {
	// Web routes first so /healthz and /metrics are not rate limited.
	setup(app, NewHttpRouter(h), NewApiRouter(h))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
