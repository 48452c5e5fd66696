package config

import "time"

const (
	trillionSecretVar = "TRILLION_WEBHOOK_SECRET"
	sweepIntervalVar  = "SESSION_SWEEP_INTERVAL"
	sessionMaxIdleVar = "SESSION_MAX_IDLE"

	// The idle threshold is deliberately larger than the sweep period, so a
	// record can outlive its nominal expiry by up to one tick.
	defaultSweepInterval  = 30 * time.Minute
	defaultSessionMaxIdle = 60 * time.Minute
)

type WebhookConfig interface {
	GetTrillionWebhookSecret() string
	GetSessionSweepInterval() time.Duration
	GetSessionMaxIdle() time.Duration
}

type Webhook struct{}

var _ WebhookConfig = Webhook{}

// GetTrillionWebhookSecret returns the shared HMAC secret for inbound webhook
// verification. An empty secret disables verification entirely.
func (Webhook) GetTrillionWebhookSecret() string {
	return GetEnv(trillionSecretVar, "")
}

func (Webhook) GetSessionSweepInterval() time.Duration {
	return GetDurationEnv(sweepIntervalVar, defaultSweepInterval)
}

func (Webhook) GetSessionMaxIdle() time.Duration {
	return GetDurationEnv(sessionMaxIdleVar, defaultSessionMaxIdle)
}
