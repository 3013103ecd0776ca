package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PayFox/internal/pkg/jobqueue"
)

// QueueInspector is the read side of the background job queue.
type QueueInspector interface {
	GetJobStats(ctx context.Context) (map[jobqueue.JobStatus]int64, error)
	GetQueueSize(ctx context.Context) (int64, error)
	GetProcessingSize(ctx context.Context) (int64, error)
	GetJob(ctx context.Context, jobID string) (*jobqueue.Job, error)
}

// QueueController exposes notification and archive job state to operators.
type QueueController struct {
	queue QueueInspector
}

func NewQueueController(queue QueueInspector) *QueueController {
	return &QueueController{queue: queue}
}

// HandleQueueStats returns pending/processing depth and per-status counters.
func (qc *QueueController) HandleQueueStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	pending, err := qc.queue.GetQueueSize(ctx)
	if err != nil {
		return queueUnavailable(c, err)
	}
	processing, err := qc.queue.GetProcessingSize(ctx)
	if err != nil {
		return queueUnavailable(c, err)
	}
	stats, err := qc.queue.GetJobStats(ctx)
	if err != nil {
		return queueUnavailable(c, err)
	}

	counters := make(map[string]int64, len(stats))
	for status, n := range stats {
		counters[string(status)] = n
	}
	return c.JSON(fiber.Map{
		"pending":    pending,
		"processing": processing,
		"counters":   counters,
	})
}

// HandleGetJob returns one job by id.
func (qc *QueueController) HandleGetJob(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "job id missing"})
	}

	job, err := qc.queue.GetJob(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
		}
		return queueUnavailable(c, err)
	}
	return c.JSON(job)
}

func queueUnavailable(c *fiber.Ctx, err error) error {
	log.Errorf("[Queue] Inspecting queue failed: %v", err)
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "queue_unavailable"})
}
