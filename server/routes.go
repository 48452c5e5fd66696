package server

import "net/http"

func (s *Server) initRoutes() {
	// "GET /{$}" matches the bare root only; a plain "GET /" would swallow
	// every unregistered path.
	s.RegisterRouteHandler("GET "+RouteIndex+"{$}", ChainMiddleware(s.IndexHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMetrics, ChainMiddleware(s.collector.Handler().ServeHTTP, s.StandardMiddleware()...))

	// Session introspection
	s.RegisterRouteHandler("GET "+RouteSessions, ChainMiddleware(s.SessionsListHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSessionsClear, ChainMiddleware(s.SessionsClearHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSessionsCreate, ChainMiddleware(s.SessionsCreateHandler(), s.APIMiddleware()...))

	// Webhook intake
	s.RegisterRouteHandler("POST "+RouteWebhookTrillion, ChainMiddleware(s.TrillionWebhookHandler(), s.StandardMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTestWebhook, ChainMiddleware(s.TestWebhookHandler(), s.APIMiddleware()...))
}

func (s *Server) preflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
