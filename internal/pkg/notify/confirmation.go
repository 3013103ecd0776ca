package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/ManuelReschke/PayFox/internal/pkg/billing"
	"github.com/ManuelReschke/PayFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/PayFox/internal/pkg/mail"
)

const confirmationSubject = "Payment received"

// Renderer renders a named mail template.
type Renderer interface {
	Render(name string, data interface{}) (string, error)
}

// Recommendation is one catalog entry shown in the mail.
type Recommendation struct {
	Title       string
	Description string
	URL         string
}

// ConfirmationData is the payment_confirmation template binding.
type ConfirmationData struct {
	Subject         string
	FirstName       string
	PlanName        string
	Amount          string
	TransactionID   string
	ProcessorRef    string
	Recommendations []Recommendation
}

// ConfirmationHandler runs payment_confirmation jobs.
type ConfirmationHandler struct {
	users         repository.UserRepository
	catalog       repository.CatalogRepository
	notifications repository.NotificationRepository
	renderer      Renderer
	sender        mail.Sender
	metrics       billing.Metrics
}

func NewConfirmationHandler(repos *repository.Repositories, renderer Renderer, sender mail.Sender, metrics billing.Metrics) *ConfirmationHandler {
	if metrics == nil {
		metrics = &billing.NoopMetrics{}
	}
	return &ConfirmationHandler{
		users:         repos.User,
		catalog:       repos.Catalog,
		notifications: repos.Notification,
		renderer:      renderer,
		sender:        sender,
		metrics:       metrics,
	}
}

// Register binds the handler to its job type.
func (h *ConfirmationHandler) Register(q *jobqueue.Queue) {
	q.RegisterHandler(jobqueue.JobTypePaymentConfirmation, h.Handle)
}

// Handle sends one confirmation mail. A send failure is returned so the
// queue retries; lookups that fail only degrade the mail.
func (h *ConfirmationHandler) Handle(ctx context.Context, job *jobqueue.Job) error {
	p, err := jobqueue.PaymentConfirmationJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	sent, err := h.notifications.ExistsForReference(ctx, p.UserID, models.NotificationTypePaymentConfirmation, p.TransactionID)
	if err != nil {
		log.Warnf("[Notify] Could not check notification log txn=%s: %v", p.TransactionID, err)
	} else if sent {
		log.Infof("[Notify] Confirmation already sent payer=%s txn=%s", p.UserID, p.TransactionID)
		return nil
	}

	user := h.lookupUser(ctx, p.UserID)
	recipient := strings.TrimSpace(p.Email)
	firstName := strings.TrimSpace(p.FirstName)
	interests := map[string]struct{}{}
	if user != nil {
		if recipient == "" {
			recipient = user.Email
		}
		if firstName == "" {
			firstName = user.Name
		}
		interests = user.InterestSet()
	}
	if recipient == "" {
		log.Errorf("[Notify] No recipient for payer=%s txn=%s, dropping confirmation", p.UserID, p.TransactionID)
		h.metrics.RecordNotification("dropped")
		return nil
	}

	data := ConfirmationData{
		Subject:         confirmationSubject,
		FirstName:       firstName,
		PlanName:        p.PlanName,
		Amount:          p.Amount,
		TransactionID:   p.TransactionID,
		ProcessorRef:    p.ProcessorRef,
		Recommendations: h.recommend(ctx, interests),
	}
	body, err := h.renderer.Render(mail.TemplatePaymentConfirmation, data)
	if err != nil {
		h.metrics.RecordNotification("failed")
		return fmt.Errorf("render confirmation: %w", err)
	}

	if err := h.sender.Send(ctx, mail.Message{To: recipient, Subject: confirmationSubject, HTMLBody: body}); err != nil {
		h.metrics.RecordNotification("failed")
		return fmt.Errorf("send confirmation: %w", err)
	}
	h.metrics.RecordNotification("sent")

	entry := &models.Notification{
		UserID:      p.UserID,
		Type:        models.NotificationTypePaymentConfirmation,
		Content:     fmt.Sprintf("Payment of %s for %s received", p.Amount, p.PlanName),
		ReferenceID: p.TransactionID,
	}
	if err := h.notifications.Create(ctx, entry); err != nil {
		log.Errorf("[Notify] Failed to log notification payer=%s txn=%s: %v", p.UserID, p.TransactionID, err)
	}
	return nil
}

func (h *ConfirmationHandler) lookupUser(ctx context.Context, id string) *models.User {
	if id == "" {
		return nil
	}
	user, err := h.users.GetByID(ctx, id)
	if err == nil {
		return user
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && strings.Contains(id, "@") {
		// Payer id fell back to the email.
		if user, err = h.users.GetByEmail(ctx, id); err == nil {
			return user
		}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warnf("[Notify] User lookup failed payer=%s: %v", id, err)
	}
	return nil
}

func (h *ConfirmationHandler) recommend(ctx context.Context, interests map[string]struct{}) []Recommendation {
	items, err := h.catalog.ListActive(ctx)
	if err != nil {
		log.Warnf("[Notify] Catalog unavailable, sending without recommendations: %v", err)
		return nil
	}
	ranked := RankRecommendations(items, interests, DefaultRecommendationLimit)
	out := make([]Recommendation, 0, len(ranked))
	for _, item := range ranked {
		out = append(out, Recommendation{Title: item.Title, Description: item.Description, URL: item.URL})
	}
	return out
}
