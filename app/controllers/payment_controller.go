package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PayFox/internal/pkg/billing"
)

const verifyTimeout = 15 * time.Second

// PaymentController serves the hash API and the processor browser callback.
type PaymentController struct {
	dispatcher *billing.Dispatcher
}

func NewPaymentController(dispatcher *billing.Dispatcher) *PaymentController {
	return &PaymentController{dispatcher: dispatcher}
}

// HandleHash answers POST /api/v1/payments/hash for generate-hash and verify-hash.
func (pc *PaymentController) HandleHash(c *fiber.Ctx) error {
	cb, err := billing.ParseJSONCallback(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_body",
			"message": err.Error(),
		})
	}

	action, err := billing.ParseAction(cb.Action)
	if err != nil {
		return writeBillingError(c, err)
	}

	switch action {
	case billing.ActionGenerateHash:
		resp, err := pc.dispatcher.GenerateHash(cb)
		if err != nil {
			return writeBillingError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(resp)

	default:
		ctx, cancel := context.WithTimeout(c.UserContext(), verifyTimeout)
		defer cancel()

		resp, err := pc.dispatcher.VerifyHash(ctx, cb)
		if err != nil {
			return writeBillingError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(resp)
	}
}

// HandleCallback answers the processor's form POST with a 303 to the
// merchant's landing page.
func (pc *PaymentController) HandleCallback(c *fiber.Ctx) error {
	var fields []billing.Field
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		fields = append(fields, billing.Field{Key: string(k), Value: string(v)})
	})

	cb := billing.ParseFormCallback(fields)
	location, err := pc.dispatcher.HandleRedirect(cb)
	if err != nil {
		log.Warnf("[Payments] Callback rejected from %s txn=%s: %v", clientIP(c), cb.Fields.TransactionID, err)
		return writeBillingError(c, err)
	}
	return c.Redirect(location, fiber.StatusSeeOther)
}

func writeBillingError(c *fiber.Ctx, err error) error {
	var verr *billing.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": verr.Error(),
			"fields":  verr.Fields,
		})
	case errors.Is(err, billing.ErrUnknownAction):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown_action", "message": err.Error()})
	case errors.Is(err, billing.ErrMissingRedirectTarget):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_redirect_target", "message": err.Error()})
	case errors.Is(err, billing.ErrRedirectNotAllowed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "redirect_not_allowed", "message": err.Error()})
	default:
		log.Errorf("[Payments] Unexpected error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error"})
	}
}

// clientIP prefers proxy headers over the socket address.
func clientIP(c *fiber.Ctx) string {
	if ip := strings.TrimSpace(c.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	return c.IP()
}
