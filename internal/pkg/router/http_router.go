package router

import (
	"github.com/ManuelReschke/PayFox/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HttpRouter struct {
	handlers Handlers
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// The processor posts the browser back here after checkout.
	app.Post(constants.CallbackRoute, h.handlers.Payments.HandleCallback)

	if h.handlers.Health != nil {
		app.Get(constants.HealthRoute, h.handlers.Health.HandleHealth)
	}

	if h.handlers.Gatherer != nil {
		metrics := adaptor.HTTPHandler(promhttp.HandlerFor(h.handlers.Gatherer, promhttp.HandlerOpts{}))
		if len(h.handlers.MetricsUsers) > 0 {
			app.Get(constants.MetricsRoute, basicauth.New(basicauth.Config{Users: h.handlers.MetricsUsers}), metrics)
		} else {
			app.Get(constants.MetricsRoute, metrics)
		}
	}
}

func NewHttpRouter(h Handlers) *HttpRouter {
	return &HttpRouter{handlers: h}
}
