// Package yourgpt is a minimal client for the YourGPT chatbot API, covering
// the two calls the relay needs: creating a session and sending a message.
package yourgpt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-webhook-relay/internal/config"
	errs "github.com/jrsteele09/go-webhook-relay/internal/errors"
	"github.com/jrsteele09/go-webhook-relay/internal/metrics"
)

const (
	createSessionPath = "/chatbot/v1/createSession"
	sendMessagePath   = "/chatbot/v1/sendMessage"

	// The API reports success through the envelope type, not the HTTP status.
	typeSuccess = "RXSUCCESS"

	defaultTimeout = 30 * time.Second
)

// Client is the provider surface the relay depends on.
type Client interface {
	// CreateSession opens a fresh provider session and returns its id.
	CreateSession(ctx context.Context) (string, error)

	// SendMessage relays one user message into an existing session.
	SendMessage(ctx context.Context, sessionUID, message string) (Reply, error)
}

// Reply is the provider's answer to a relayed message.
type Reply struct {
	Text    string
	Choices []string
}

// APIError is a failure the provider reported itself. Message carries the
// provider's text verbatim so callers can surface it unchanged.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("YourGPT request failed with status %d", e.Status)
	}
	return e.Message
}

// HTTPClient implements Client against the YourGPT REST API.
type HTTPClient struct {
	baseURL   string
	apiKey    string
	widgetUID string
	client    *http.Client
	collector *metrics.Collector
	logger    zerolog.Logger
}

var _ Client = (*HTTPClient)(nil)

// New creates an HTTPClient from the provider configuration. collector may be
// nil.
func New(cfg config.ProviderConfig, collector *metrics.Collector) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(cfg.GetYourGPTBaseURL(), "/"),
		apiKey:    cfg.GetYourGPTAPIKey(),
		widgetUID: cfg.GetYourGPTWidgetUID(),
		client:    &http.Client{Timeout: defaultTimeout},
		collector: collector,
		logger:    log.With().Str("component", "yourgpt.client").Logger(),
	}
}

// SetHTTPClient replaces the underlying HTTP client, mainly for tests and
// custom transports.
func (c *HTTPClient) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.client = client
	}
}

// CreateSession opens a fresh provider session.
func (c *HTTPClient) CreateSession(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("widget_uid", c.widgetUID)

	env, err := c.postForm(ctx, metrics.OpCreateSession, createSessionPath, form)
	if err != nil {
		return "", err
	}

	var data struct {
		SessionUID string `json:"session_uid"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.SessionUID == "" {
		c.logger.Error().Str("payload", string(env.Data)).Msg("createSession response carried no session id")
		return "", errs.ErrSessionNotCreated
	}
	return data.SessionUID, nil
}

// SendMessage relays message into sessionUID and returns the bot's reply.
func (c *HTTPClient) SendMessage(ctx context.Context, sessionUID, message string) (Reply, error) {
	form := url.Values{}
	form.Set("widget_uid", c.widgetUID)
	form.Set("session_uid", sessionUID)
	form.Set("message", message)

	env, err := c.postForm(ctx, metrics.OpSendMessage, sendMessagePath, form)
	if err != nil {
		return Reply{}, err
	}

	var data struct {
		Message string   `json:"message"`
		Choices []string `json:"choices"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			c.logger.Warn().Err(err).Msg("could not decode sendMessage payload")
		}
	}
	return Reply{Text: data.Message, Choices: data.Choices}, nil
}

// apiEnvelope is the wrapper every YourGPT response arrives in.
type apiEnvelope struct {
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *HTTPClient) postForm(ctx context.Context, operation, path string, form url.Values) (apiEnvelope, error) {
	start := time.Now()
	env, err := c.do(ctx, path, form)
	c.collector.ObserveProviderRequest(operation, time.Since(start), err)
	return env, err
}

// do performs a single form POST. Transport failures and undecodable bodies
// collapse into ErrProviderUnavailable with the cause logged, never surfaced;
// provider-reported failures come back as *APIError.
func (c *HTTPClient) do(ctx context.Context, path string, form url.Values) (apiEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return apiEnvelope{}, errs.Wrapf(err, "[HTTPClient do] failed to build request for %s", path)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("provider request failed")
		return apiEnvelope{}, errs.ErrProviderUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("could not read provider response")
		return apiEnvelope{}, errs.ErrProviderUnavailable
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("undecodable provider response")
		return apiEnvelope{}, errs.ErrProviderUnavailable
	}

	if env.Type != typeSuccess {
		return apiEnvelope{}, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	return env, nil
}
