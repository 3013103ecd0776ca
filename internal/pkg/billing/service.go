package billing

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Outcome is the terminal state of one reconciliation.
type Outcome string

const (
	// OutcomeRejected means the signature did not verify; nothing was written.
	OutcomeRejected Outcome = "rejected"
	// OutcomeRecorded means the attempt was stored but the status does not
	// activate a subscription.
	OutcomeRecorded Outcome = "recorded"
	// OutcomeActivated means the attempt was stored and the subscription is active.
	OutcomeActivated Outcome = "activated"
	// OutcomePersistenceFailed means a ledger write failed. The verification
	// result is still valid.
	OutcomePersistenceFailed Outcome = "persistence_failed"
)

// ReconcileResult describes what Reconcile did.
type ReconcileResult struct {
	Outcome Outcome
	Ledger  LedgerKind
	Err     error
}

// Notifier receives successful customer payments. Implementations must not
// block on delivery.
type Notifier interface {
	PaymentSucceeded(ctx context.Context, c PaymentConfirmation) error
}

// Archiver stores the raw payload of a verified callback for audit.
type Archiver interface {
	ArchivePayload(ctx context.Context, ledger LedgerKind, transactionID, payloadJSON string) error
}

// Service reconciles verified processor callbacks into the ledger.
type Service struct {
	repo     Repository
	notifier Notifier
	archiver Archiver
	metrics  Metrics
	now      func() time.Time
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

func WithNotifier(n Notifier) ServiceOption { return func(s *Service) { s.notifier = n } }
func WithArchiver(a Archiver) ServiceOption { return func(s *Service) { s.archiver = a } }
func WithMetrics(m Metrics) ServiceOption   { return func(s *Service) { s.metrics = m } }

// WithClock overrides the period start clock.
func WithClock(now func() time.Time) ServiceOption { return func(s *Service) { s.now = now } }

// NewService creates a billing service from an injected repository.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		metrics: &NoopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, opts ...ServiceOption) *Service {
	return NewService(NewRepository(db), opts...)
}

// Reconcile records a processor attempt and, for a successful payment,
// activates the payer's subscription. Unverified attempts are never written.
// Persistence failures are logged and reported in the result but do not
// change the verification outcome the caller returns to the processor.
func (s *Service) Reconcile(ctx context.Context, in Attempt, verified bool) ReconcileResult {
	ledger := s.repo.Ledger(ResolveLedger(in.Discriminator))
	res := ReconcileResult{Ledger: ledger.Kind()}

	if !verified {
		log.Warnf("[Billing] Rejected unverified attempt txn=%s payer=%s ledger=%s", in.TransactionID, in.PayerID, res.Ledger)
		res.Outcome = OutcomeRejected
		s.metrics.RecordLedgerWrite(string(res.Ledger), string(res.Outcome))
		return res
	}

	if err := ledger.RecordAttempt(ctx, in); err != nil {
		return s.persistenceFailed(res, in, "record attempt", err)
	}
	s.archive(ctx, res.Ledger, in)

	if !isSuccessStatus(in.Status) {
		log.Infof("[Billing] Recorded attempt txn=%s payer=%s status=%s ledger=%s", in.TransactionID, in.PayerID, in.Status, res.Ledger)
		res.Outcome = OutcomeRecorded
		s.metrics.RecordLedgerWrite(string(res.Ledger), string(res.Outcome))
		return res
	}

	if err := ledger.ActivateSubscription(ctx, in.PayerID, in.PlanName, s.now().UTC()); err != nil {
		return s.persistenceFailed(res, in, "activate subscription", err)
	}

	log.Infof("[Billing] Activated subscription payer=%s plan=%s txn=%s ledger=%s", in.PayerID, in.PlanName, in.TransactionID, res.Ledger)
	res.Outcome = OutcomeActivated
	s.metrics.RecordLedgerWrite(string(res.Ledger), string(res.Outcome))

	if res.Ledger == LedgerCustomer {
		s.notify(ctx, in)
	}
	return res
}

func (s *Service) persistenceFailed(res ReconcileResult, in Attempt, step string, err error) ReconcileResult {
	log.Errorf("[Billing] Failed to %s txn=%s payer=%s status=%s ledger=%s: %v", step, in.TransactionID, in.PayerID, in.Status, res.Ledger, err)
	res.Outcome = OutcomePersistenceFailed
	res.Err = err
	s.metrics.RecordLedgerWrite(string(res.Ledger), string(res.Outcome))
	return res
}

func (s *Service) notify(ctx context.Context, in Attempt) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.PaymentSucceeded(ctx, PaymentConfirmation{
		UserID:        in.PayerID,
		Email:         in.Email,
		FirstName:     in.FirstName,
		PlanName:      in.PlanName,
		ProcessorRef:  in.ProcessorRef,
		TransactionID: in.TransactionID,
		Amount:        in.Amount,
	})
	if err != nil {
		log.Errorf("[Billing] Confirmation hand-off failed txn=%s payer=%s: %v", in.TransactionID, in.PayerID, err)
		s.metrics.RecordNotification("error")
		return
	}
	s.metrics.RecordNotification("enqueued")
}

func (s *Service) archive(ctx context.Context, ledger LedgerKind, in Attempt) {
	if s.archiver == nil {
		return
	}
	if err := s.archiver.ArchivePayload(ctx, ledger, in.TransactionID, in.RawPayloadJSON); err != nil {
		log.Warnf("[Billing] Payload archive hand-off failed txn=%s: %v", in.TransactionID, err)
	}
}
