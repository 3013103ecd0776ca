package apiv1

import (
	"github.com/gofiber/fiber/v2"
)

// Pong defines model for Pong.
type Pong struct {
	Ping string `json:"ping"`
}

// ServerInterface represents all server handlers of public/docs/v1/openapi.yml.
type ServerInterface interface {
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// (POST /payments/hash)
	PostPaymentsHash(c *fiber.Ctx) error
	// (GET /queue/stats)
	GetQueueStats(c *fiber.Ctx) error
	// (GET /queue/jobs/{id})
	GetQueueJob(c *fiber.Ctx, id string) error
}

// ServerInterfaceWrapper converts fiber contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (siw *ServerInterfaceWrapper) GetPing(c *fiber.Ctx) error {
	return siw.Handler.GetPing(c)
}

func (siw *ServerInterfaceWrapper) PostPaymentsHash(c *fiber.Ctx) error {
	return siw.Handler.PostPaymentsHash(c)
}

func (siw *ServerInterfaceWrapper) GetQueueStats(c *fiber.Ctx) error {
	return siw.Handler.GetQueueStats(c)
}

func (siw *ServerInterfaceWrapper) GetQueueJob(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "id missing"})
	}
	return siw.Handler.GetQueueJob(c, id)
}

// FiberServerOptions provides options for the Fiber server.
type FiberServerOptions struct {
	BaseURL string
	// OperatorAuth guards the queue inspection routes when set.
	OperatorAuth fiber.Handler
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, FiberServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options.
func RegisterHandlersWithOptions(router fiber.Router, si ServerInterface, options FiberServerOptions) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.Get(options.BaseURL+"/ping", wrapper.GetPing)
	router.Post(options.BaseURL+"/payments/hash", wrapper.PostPaymentsHash)

	protected := []fiber.Handler{}
	if options.OperatorAuth != nil {
		protected = append(protected, options.OperatorAuth)
	}
	router.Get(options.BaseURL+"/queue/stats", append(protected, wrapper.GetQueueStats)...)
	router.Get(options.BaseURL+"/queue/jobs/:id", append(protected, wrapper.GetQueueJob)...)
}
