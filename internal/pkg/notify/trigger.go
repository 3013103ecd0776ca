package notify

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PayFox/internal/pkg/billing"
	"github.com/ManuelReschke/PayFox/internal/pkg/jobqueue"
)

// Enqueuer is the part of the job queue the trigger needs.
type Enqueuer interface {
	EnqueueJob(ctx context.Context, jobType jobqueue.JobType, payload map[string]interface{}) (*jobqueue.Job, error)
}

// Trigger hands successful customer payments to the job queue. It never
// waits for the mail to be sent.
type Trigger struct {
	queue   Enqueuer
	enabled bool
}

var _ billing.Notifier = (*Trigger)(nil)

func NewTrigger(queue Enqueuer, enabled bool) *Trigger {
	return &Trigger{queue: queue, enabled: enabled}
}

// PaymentSucceeded enqueues a payment_confirmation job.
func (t *Trigger) PaymentSucceeded(ctx context.Context, c billing.PaymentConfirmation) error {
	if !t.enabled {
		log.Debugf("[Notify] Confirmation disabled, skipping txn=%s", c.TransactionID)
		return nil
	}

	payload := jobqueue.PaymentConfirmationJobPayload{
		UserID:        c.UserID,
		Email:         c.Email,
		FirstName:     c.FirstName,
		PlanName:      c.PlanName,
		ProcessorRef:  c.ProcessorRef,
		TransactionID: c.TransactionID,
		Amount:        c.Amount,
	}
	job, err := t.queue.EnqueueJob(ctx, jobqueue.JobTypePaymentConfirmation, payload.ToMap())
	if err != nil {
		return fmt.Errorf("enqueue payment confirmation: %w", err)
	}
	log.Infof("[Notify] Queued confirmation job %s for payer=%s txn=%s", job.ID, c.UserID, c.TransactionID)
	return nil
}
