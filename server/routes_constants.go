package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Service metadata & monitoring
	RouteIndex   = "/"
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"

	// Session introspection
	RouteSessions       = "/sessions"
	RouteSessionsClear  = "/sessions/clear"
	RouteSessionsCreate = "/sessions/create"

	// Webhook intake
	RouteWebhookTrillion = "/webhook/trillion"
	RouteTestWebhook     = "/test/webhook"
)

// HeaderTrillionSignature carries the HMAC of the raw webhook body.
const HeaderTrillionSignature = "x-trillion-signature"
