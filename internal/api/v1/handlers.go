package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to the controllers so the web and API surfaces answer alike
	"github.com/ManuelReschke/PayFox/app/controllers"
)

// APIServer implements the ServerInterface
type APIServer struct {
	payments *controllers.PaymentController
	queue    *controllers.QueueController
}

// NewAPIServer creates a new API server instance. queue may be nil when no
// job queue is running.
func NewAPIServer(payments *controllers.PaymentController, queue *controllers.QueueController) *APIServer {
	return &APIServer{payments: payments, queue: queue}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// PostPaymentsHash generates or verifies a processor hash depending on the
// action field of the body.
func (s *APIServer) PostPaymentsHash(c *fiber.Ctx) error {
	return s.payments.HandleHash(c)
}

// GetQueueStats reports background job queue depth.
func (s *APIServer) GetQueueStats(c *fiber.Ctx) error {
	if s.queue == nil {
		return queueDisabled(c)
	}
	return s.queue.HandleQueueStats(c)
}

// GetQueueJob returns a single background job.
func (s *APIServer) GetQueueJob(c *fiber.Ctx, id string) error {
	if s.queue == nil {
		return queueDisabled(c)
	}
	// Controller reads id from route params; wrapper already validated it.
	return s.queue.HandleGetJob(c)
}

func queueDisabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error":   "queue_unavailable",
		"message": "The job queue is not running",
	})
}
