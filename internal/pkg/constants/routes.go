package constants

// Static route constants
const (
	// CallbackRoute receives the processor's browser redirect after checkout.
	CallbackRoute = "/payments/callback"
	HealthRoute   = "/healthz"
	MetricsRoute  = "/metrics"
	APIRoute      = "/api"
	APIv1Route    = "/v1"
	// DocsRoute serves the OpenAPI UI
	DocsRoute = "/docs/api/"
)
