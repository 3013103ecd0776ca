package router

import (
	apiv1 "github.com/ManuelReschke/PayFox/internal/api/v1"
	"github.com/ManuelReschke/PayFox/internal/pkg/constants"
	"github.com/ManuelReschke/PayFox/internal/pkg/middleware"
	"github.com/ManuelReschke/PayFox/internal/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
	handlers Handlers
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New(ratelimit.Config(h.handlers.LimiterStorage)))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group(constants.APIv1Route)
	apiServer := apiv1.NewAPIServer(h.handlers.Payments, h.handlers.Queue)
	apiv1.RegisterHandlersWithOptions(v1, apiServer, apiv1.FiberServerOptions{
		OperatorAuth: middleware.APIKeyAuthMiddleware(h.handlers.OperatorKeys...),
	})
}

func NewApiRouter(h Handlers) *ApiRouter {
	return &ApiRouter{handlers: h}
}
