// Package server exposes the relay over HTTP: the Trillion webhook intake,
// the session introspection endpoints, and the health/metadata surface.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-webhook-relay/internal/config"
	"github.com/jrsteele09/go-webhook-relay/internal/metrics"
	"github.com/jrsteele09/go-webhook-relay/relay"
	"github.com/jrsteele09/go-webhook-relay/sessions"
	"github.com/jrsteele09/go-webhook-relay/signature"
	"github.com/jrsteele09/go-webhook-relay/yourgpt"
)

const (
	serviceVersion     = "1.0.0"
	serviceDescription = "Relays Trillion chat webhooks to the YourGPT conversational AI"
)

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	preflight http.HandlerFunc
	config    config.Config
	store     sessions.Repo
	processor *relay.Processor
	verifier  *signature.Verifier
	collector *metrics.Collector
	startedAt time.Time
}

func New(config config.Config, store sessions.Repo, provider yourgpt.Client, collector *metrics.Collector) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		config:    config,
		store:     store,
		processor: relay.NewProcessor(store, provider, collector),
		verifier:  signature.New(config.GetTrillionWebhookSecret()),
		collector: collector,
		startedAt: time.Now().UTC(),
	}
	s.env = config.GetEnv()
	s.preflight = ChainMiddleware(s.preflightHandler(), s.CorsMiddleware)

	s.initRoutes()
	s.logRoutes()

	return s
}

// ServeHTTP answers CORS preflight itself; the mux's method-qualified
// patterns would otherwise reject OPTIONS outright.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		s.preflight(w, r)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// EndpointList returns the registered routes as displayable "METHOD /path"
// strings for the metadata endpoint.
func (s *Server) EndpointList() []string {
	endpoints := make([]string, 0, len(s.routes))
	for _, route := range s.routes {
		endpoints = append(endpoints, strings.TrimSuffix(route, "{$}"))
	}
	return endpoints
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
