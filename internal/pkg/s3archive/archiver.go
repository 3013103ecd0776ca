package s3archive

import (
	"context"
	"fmt"
	"time"

	"github.com/ManuelReschke/PayFox/internal/pkg/billing"
	"github.com/ManuelReschke/PayFox/internal/pkg/jobqueue"
)

// Enqueuer is the part of the job queue the archiver needs.
type Enqueuer interface {
	EnqueueJob(ctx context.Context, jobType jobqueue.JobType, payload map[string]interface{}) (*jobqueue.Job, error)
}

// Archiver queues verified callback payloads for upload.
type Archiver struct {
	queue Enqueuer
	now   func() time.Time
}

var _ billing.Archiver = (*Archiver)(nil)

func NewArchiver(queue Enqueuer) *Archiver {
	return &Archiver{queue: queue, now: time.Now}
}

// ArchivePayload enqueues an archive_payload job.
func (a *Archiver) ArchivePayload(ctx context.Context, ledger billing.LedgerKind, transactionID, payloadJSON string) error {
	payload := jobqueue.ArchivePayloadJobPayload{
		Ledger:        string(ledger),
		TransactionID: transactionID,
		PayloadJSON:   payloadJSON,
		ReceivedAt:    a.now().UTC().Format(time.RFC3339Nano),
	}
	if _, err := a.queue.EnqueueJob(ctx, jobqueue.JobTypeArchivePayload, payload.ToMap()); err != nil {
		return fmt.Errorf("enqueue archive: %w", err)
	}
	return nil
}

// Handler uploads archive_payload jobs.
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// Register binds the handler to its job type.
func (h *Handler) Register(q *jobqueue.Queue) {
	q.RegisterHandler(jobqueue.JobTypeArchivePayload, h.Handle)
}

func (h *Handler) Handle(ctx context.Context, job *jobqueue.Job) error {
	p, err := jobqueue.ArchivePayloadJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	receivedAt, err := time.Parse(time.RFC3339Nano, p.ReceivedAt)
	if err != nil {
		receivedAt = job.CreatedAt
	}
	key := h.client.config.ObjectKey(p.Ledger, p.TransactionID, receivedAt)
	return h.client.PutPayload(ctx, key, []byte(p.PayloadJSON))
}
