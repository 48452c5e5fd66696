package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	errs "github.com/jrsteele09/go-webhook-relay/internal/errors"
	"github.com/jrsteele09/go-webhook-relay/internal/metrics"
	"github.com/jrsteele09/go-webhook-relay/internal/utils"
	"github.com/jrsteele09/go-webhook-relay/relay"
)

// Fallback identities for webhook deliveries that omit sender or recipient.
const (
	fallbackChannel  = "trillion_bot"
	fallbackUserID   = "unknown_user"
	fallbackUserName = "Unknown User"
)

// TrillionWebhookHandler receives form-encoded deliveries from the Trillion
// platform. The signature covers the raw body, so the body is read before any
// form parsing. Responses are plain text: Trillion displays the body directly
// to the end user.
func (s *Server) TrillionWebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writePlainText(w, http.StatusInternalServerError, "could not read request body")
			return
		}

		if !s.verifier.Verify(body, r.Header.Get(HeaderTrillionSignature)) {
			s.collector.RecordWebhook(metrics.OutcomeRejected)
			log.Warn().
				Err(errs.ErrInvalidSignature).
				Str("requestId", RequestIDFromContext(r.Context())).
				Msg("webhook rejected")
			writeJSONError(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		form, err := url.ParseQuery(string(body))
		if err != nil {
			// Keep whatever did parse; the platform's encoding is not
			// always strict about escapes.
			log.Warn().Err(err).Msg("webhook body only partially parsed")
		}

		event := relay.Event{
			UserID:    utils.FirstNonEmpty(form.Get("from"), fallbackUserID),
			ChannelID: utils.FirstNonEmpty(form.Get("to"), fallbackChannel),
			Message:   form.Get("message"),
			EventType: relay.EventTypeMessage,
			UserName:  utils.FirstNonEmpty(form.Get("user_name"), fallbackUserName),
		}

		log.Debug().
			Str("requestId", RequestIDFromContext(r.Context())).
			Str("from", event.UserID).
			Str("to", event.ChannelID).
			Str("language", form.Get("language")).
			Str("timestamp", form.Get("timestamp")).
			Msg("trillion webhook received")

		result := s.processor.Process(r.Context(), event)

		switch {
		case result.Skipped:
			writePlainText(w, http.StatusOK, "")
		case !result.Success:
			writePlainText(w, http.StatusInternalServerError, result.Error)
		default:
			writePlainText(w, http.StatusOK, result.ReplyText)
		}
	}
}

// testWebhookRequest optionally overrides the canned test event.
type testWebhookRequest struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Message   string `json:"message"`
	EventType string `json:"event_type"`
	UserName  string `json:"user_name"`
}

// TestWebhookHandler drives the same pipeline as the Trillion intake with
// canned values, returning the full result as JSON for inspection.
func (s *Server) TestWebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req testWebhookRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req) // An empty body means all defaults.
		}

		event := relay.Event{
			UserID:    utils.FirstNonEmpty(req.UserID, "test_user"),
			ChannelID: utils.FirstNonEmpty(req.ChannelID, "test_channel"),
			Message:   utils.FirstNonEmpty(req.Message, "Hello from the test endpoint"),
			EventType: utils.FirstNonEmpty(req.EventType, relay.EventTypeMessage),
			UserName:  utils.FirstNonEmpty(req.UserName, "Test User"),
		}

		result := s.processor.Process(r.Context(), event)

		statusCode := http.StatusOK
		if !result.Success {
			statusCode = http.StatusInternalServerError
		}
		writeJSON(w, statusCode, result)
	}
}
