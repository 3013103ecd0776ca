package billing

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Action is the operation a callback asks for.
type Action string

const (
	// ActionGenerateHash signs a request that has not been sent yet. No ledger write.
	ActionGenerateHash Action = "generate-hash"
	// ActionVerifyHash verifies a processor response and reconciles synchronously.
	ActionVerifyHash Action = "verify-hash"
	// ActionRedirectCallback handles the processor's browser redirect.
	ActionRedirectCallback Action = "redirect-callback"
)

// backgroundReconcileTimeout bounds the reconcile that outlives a redirect.
const backgroundReconcileTimeout = 15 * time.Second

// ParseAction maps the JSON action field onto an API action.
func ParseAction(raw string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionGenerateHash:
		return ActionGenerateHash, nil
	case ActionVerifyHash:
		return ActionVerifyHash, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
}

// Dispatcher routes normalized callbacks to signing, verification or the
// redirect flow.
type Dispatcher struct {
	cfg     *Config
	svc     *Service
	metrics Metrics

	// goAsync runs work that must not delay the redirect.
	goAsync func(func())
	pending sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAsyncRunner replaces the goroutine used for background reconciles.
func WithAsyncRunner(run func(func())) DispatcherOption {
	return func(d *Dispatcher) { d.goAsync = run }
}

// NewDispatcher wires the dispatcher. metrics may be nil.
func NewDispatcher(cfg *Config, svc *Service, metrics Metrics, opts ...DispatcherOption) *Dispatcher {
	if metrics == nil {
		metrics = &NoopMetrics{}
	}
	d := &Dispatcher{
		cfg:     cfg,
		svc:     svc,
		metrics: metrics,
		goAsync: func(fn func()) { go fn() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// GenerateHash signs an outgoing processor request.
func (d *Dispatcher) GenerateHash(cb *Callback) (*HashResponse, error) {
	if err := cb.ValidateForSigning(); err != nil {
		d.metrics.RecordHashAction(string(ActionGenerateHash), "invalid_request")
		return nil, err
	}
	creds := d.cfg.Credentials()
	digest := Sign(cb.Fields, creds)
	d.metrics.RecordHashAction(string(ActionGenerateHash), "ok")
	return &HashResponse{Digest: digest, SigningKey: creds.Key}, nil
}

// VerifyHash checks a processor response and reconciles it before answering.
// A digest mismatch is a normal result, not an error.
func (d *Dispatcher) VerifyHash(ctx context.Context, cb *Callback) (*VerificationResponse, error) {
	if err := cb.ValidateForVerification(); err != nil {
		d.metrics.RecordHashAction(string(ActionVerifyHash), "invalid_request")
		return nil, err
	}

	resp := d.verify(ActionVerifyHash, cb)
	d.svc.Reconcile(ctx, AttemptFromCallback(cb), resp.Verified)
	return resp, nil
}

// HandleRedirect verifies a browser callback, reconciles it in the
// background and returns the URL the browser is sent to. Every received field
// is forwarded so the landing page can re-verify.
func (d *Dispatcher) HandleRedirect(cb *Callback) (string, error) {
	if err := cb.ValidateForVerification(); err != nil {
		d.metrics.RecordHashAction(string(ActionRedirectCallback), "invalid_request")
		return "", err
	}
	target, err := ResolveRedirectTarget(cb)
	if err != nil {
		d.metrics.RecordHashAction(string(ActionRedirectCallback), "invalid_request")
		return "", err
	}
	location, err := BuildRedirectURL(target, cb.Raw, d.cfg.RedirectAllowedHosts)
	if err != nil {
		d.metrics.RecordHashAction(string(ActionRedirectCallback), "invalid_request")
		return "", err
	}

	resp := d.verify(ActionRedirectCallback, cb)
	attempt := AttemptFromCallback(cb)
	d.pending.Add(1)
	d.goAsync(func() {
		defer d.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundReconcileTimeout)
		defer cancel()
		d.svc.Reconcile(ctx, attempt, resp.Verified)
	})
	return location, nil
}

// Wait blocks until every background reconcile started by HandleRedirect has
// finished. Each one is bounded by its own timeout.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

func (d *Dispatcher) verify(action Action, cb *Callback) *VerificationResponse {
	creds := d.cfg.Credentials()
	if k := cb.Get(FieldMerchantKey); k != "" && k != creds.Key {
		log.Warnf("[Billing] Callback for txn=%s names a different merchant key", cb.Fields.TransactionID)
	}
	generated := SignResponse(cb.Fields, creds)
	verified := Verify(cb.Fields, creds, cb.Digest)

	outcome := "verified"
	if !verified {
		outcome = "rejected"
		log.Warnf("[Billing] Signature mismatch action=%s txn=%s", action, cb.Fields.TransactionID)
	}
	d.metrics.RecordHashAction(string(action), outcome)

	return &VerificationResponse{
		Verified:        verified,
		Status:          cb.Fields.Status,
		GeneratedDigest: generated,
		ReceivedDigest:  cb.Digest,
	}
}

// ResolveRedirectTarget picks the embedded redirect target, then the
// processor success URL.
func ResolveRedirectTarget(cb *Callback) (string, error) {
	if t := strings.TrimSpace(cb.RedirectTarget); t != "" {
		return t, nil
	}
	if t := strings.TrimSpace(cb.SuccessURL); t != "" {
		return t, nil
	}
	return "", ErrMissingRedirectTarget
}

// BuildRedirectURL appends every field, in order, to the target's query.
// The target must be an absolute http(s) URL; when allowedHosts is set its
// host must be one of them.
func BuildRedirectURL(target string, fields []Field, allowedHosts []string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedirectNotAllowed, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute http(s) url", ErrRedirectNotAllowed, target)
	}
	if len(allowedHosts) > 0 && !hostAllowed(u.Hostname(), allowedHosts) {
		return "", fmt.Errorf("%w: host %q", ErrRedirectNotAllowed, u.Hostname())
	}

	var sb strings.Builder
	sb.WriteString(u.RawQuery)
	for _, f := range fields {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(f.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(f.Value))
	}
	u.RawQuery = sb.String()
	return u.String(), nil
}

func hostAllowed(host string, allowed []string) bool {
	host = strings.ToLower(host)
	for _, h := range allowed {
		if host == h {
			return true
		}
	}
	return false
}
