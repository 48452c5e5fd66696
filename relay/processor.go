// Package relay orchestrates one inbound chat event end to end: evict any
// prior session for the sender, open a fresh provider session, relay the
// message, and shape the outcome into a uniform result.
package relay

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	errs "github.com/jrsteele09/go-webhook-relay/internal/errors"
	"github.com/jrsteele09/go-webhook-relay/internal/metrics"
	"github.com/jrsteele09/go-webhook-relay/internal/utils"
	"github.com/jrsteele09/go-webhook-relay/sessions"
	"github.com/jrsteele09/go-webhook-relay/yourgpt"
)

// EventTypeMessage is the only event type that reaches the provider; anything
// else is acknowledged and dropped.
const EventTypeMessage = "message"

// DefaultUserName labels records whose sender supplied no display name.
const DefaultUserName = "Unknown User"

// Event is one normalized inbound chat message.
type Event struct {
	UserID    string `json:"userId"`
	ChannelID string `json:"channelId"`
	Message   string `json:"message"`
	EventType string `json:"eventType"`
	UserName  string `json:"userName"`
}

// Result is the uniform outcome of processing one Event. Failures are carried
// in Error with Success false; they are never surfaced as Go errors.
type Result struct {
	Success     bool      `json:"success"`
	Skipped     bool      `json:"skipped,omitempty"`
	SessionUID  string    `json:"sessionUid,omitempty"`
	UserMessage string    `json:"userMessage,omitempty"`
	ReplyText   string    `json:"replyText,omitempty"`
	Choices     []string  `json:"choices,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Processor owns the fresh-session-per-message policy: every relayed message
// discards the sender's previous provider session and opens a new one, so no
// conversational context survives between messages.
type Processor struct {
	repo      sessions.Repo
	provider  yourgpt.Client
	collector *metrics.Collector
	logger    zerolog.Logger
}

// NewProcessor creates a Processor. collector may be nil.
func NewProcessor(repo sessions.Repo, provider yourgpt.Client, collector *metrics.Collector) *Processor {
	return &Processor{
		repo:      repo,
		provider:  provider,
		collector: collector,
		logger:    log.With().Str("component", "relay.processor").Logger(),
	}
}

// Process handles one inbound event. Non-message events and empty messages
// are acknowledged without touching the provider. A single timestamp is
// captured up front and stamped on both the stored record and the result, so
// a freshly relayed record always has CreatedAt equal to LastActivity.
func (p *Processor) Process(ctx context.Context, event Event) Result {
	now := time.Now().UTC()
	logger := p.logger.With().
		Str("eventId", uuid.NewString()).
		Str("userId", event.UserID).
		Str("channelId", event.ChannelID).
		Logger()

	if event.EventType != EventTypeMessage || strings.TrimSpace(event.Message) == "" {
		logger.Debug().Str("eventType", event.EventType).Msg("event skipped")
		p.collector.RecordWebhook(metrics.OutcomeSkipped)
		return Result{Success: true, Skipped: true, Timestamp: now}
	}

	key := sessions.Key(event.UserID, event.ChannelID)

	// Fresh-session policy: any prior session for this key is discarded
	// before a replacement exists. Its provider id is never reused.
	p.repo.Remove(key)

	sessionUID, err := p.provider.CreateSession(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("could not create provider session")
		return p.failure(now, err)
	}

	rec := sessions.Record{
		SessionUID:   sessionUID,
		UserID:       event.UserID,
		ChannelID:    event.ChannelID,
		UserName:     utils.FirstNonEmpty(event.UserName, DefaultUserName),
		CreatedAt:    now,
		LastActivity: now,
	}
	p.repo.Put(key, rec)

	reply, err := p.provider.SendMessage(ctx, sessionUID, event.Message)
	if err != nil {
		// The fresh record stays in the store; there is no rollback.
		logger.Error().Err(err).Str("sessionUid", sessionUID).Msg("could not relay message")
		return p.failure(now, err)
	}

	// Mark activity with the timestamp the record was created with.
	rec.LastActivity = now
	p.repo.Put(key, rec)

	logger.Info().
		Str("sessionUid", sessionUID).
		Str("message", utils.Truncate(event.Message, 80)).
		Msg("message relayed")
	p.collector.RecordWebhook(metrics.OutcomeRelayed)

	return Result{
		Success:     true,
		SessionUID:  sessionUID,
		UserMessage: event.Message,
		ReplyText:   reply.Text,
		Choices:     reply.Choices,
		Timestamp:   now,
	}
}

// CreateManualSession provisions a session for (userID, channelID) without
// relaying a message, replacing any record already held for the key.
func (p *Processor) CreateManualSession(ctx context.Context, userID, channelID, userName string) (string, string, error) {
	if userID == "" || channelID == "" {
		return "", "", errs.Wrapf(errs.ErrMissingField, "[Processor CreateManualSession] user_id and channel_id are required")
	}

	key := sessions.Key(userID, channelID)
	p.repo.Remove(key)

	sessionUID, err := p.provider.CreateSession(ctx)
	if err != nil {
		p.logger.Error().Err(err).Str("key", key).Msg("manual session creation failed")
		return "", "", err
	}

	now := time.Now().UTC()
	p.repo.Put(key, sessions.Record{
		SessionUID:   sessionUID,
		UserID:       userID,
		ChannelID:    channelID,
		UserName:     utils.FirstNonEmpty(userName, DefaultUserName),
		CreatedAt:    now,
		LastActivity: now,
	})

	p.logger.Info().Str("key", key).Str("sessionUid", sessionUID).Msg("manual session created")
	return key, sessionUID, nil
}

func (p *Processor) failure(now time.Time, err error) Result {
	p.collector.RecordWebhook(metrics.OutcomeFailed)
	return Result{Success: false, Error: err.Error(), Timestamp: now}
}
