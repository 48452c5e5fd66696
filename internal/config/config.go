package config

import (
	"fmt"
	"strings"
)

type Config interface {
	EnvConfig
	ProviderConfig
	WebhookConfig
	CorsConfig
}

type mainConfig struct {
	EnvVars
	Provider
	Webhook
	Cors
}

func New() Config {
	return mainConfig{}
}

// Validate checks the configuration the process cannot run without. It is
// called once at startup; a non-nil error is fatal.
func Validate(c Config) error {
	var missing []string
	if c.GetYourGPTAPIKey() == "" {
		missing = append(missing, yourGPTAPIKeyVar)
	}
	if c.GetYourGPTWidgetUID() == "" {
		missing = append(missing, yourGPTWidgetUIDVar)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
