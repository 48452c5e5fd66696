package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-webhook-relay/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, envVar := range []string{
		"YOURGPT_API_KEY", "YOURGPT_WIDGET_UID", "YOURGPT_BASE_URL",
		"TRILLION_WEBHOOK_SECRET", "PORT", "APP_NAME", "ENV", "LOG_LEVEL",
		"ALLOWED_ORIGINS", "SESSION_SWEEP_INTERVAL", "SESSION_MAX_IDLE",
	} {
		t.Setenv(envVar, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	c := config.New()

	require.Equal(t, ":3000", c.GetPort())
	require.Equal(t, "Trillion Relay", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "info", c.GetLogLevel())
	require.Equal(t, "https://api.yourgpt.ai", c.GetYourGPTBaseURL())
	require.Empty(t, c.GetTrillionWebhookSecret())
	require.Equal(t, 30*time.Minute, c.GetSessionSweepInterval())
	require.Equal(t, 60*time.Minute, c.GetSessionMaxIdle())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("*"))
}

func TestPortIsPrefixedWithColon(t *testing.T) {
	clearEnv(t)
	c := config.New()

	t.Setenv("PORT", "8080")
	require.Equal(t, ":8080", c.GetPort())

	t.Setenv("PORT", ":9090")
	require.Equal(t, ":9090", c.GetPort())
}

func TestValidateReportsMissingVariables(t *testing.T) {
	clearEnv(t)

	err := config.Validate(config.New())
	require.Error(t, err)
	require.Contains(t, err.Error(), "YOURGPT_API_KEY")
	require.Contains(t, err.Error(), "YOURGPT_WIDGET_UID")
}

func TestValidatePassesWithRequiredVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("YOURGPT_API_KEY", "key")
	t.Setenv("YOURGPT_WIDGET_UID", "widget")

	require.NoError(t, config.Validate(config.New()))
}

func TestDurationOverrides(t *testing.T) {
	clearEnv(t)
	c := config.New()

	t.Setenv("SESSION_SWEEP_INTERVAL", "5m")
	t.Setenv("SESSION_MAX_IDLE", "2h")
	require.Equal(t, 5*time.Minute, c.GetSessionSweepInterval())
	require.Equal(t, 2*time.Hour, c.GetSessionMaxIdle())

	// Malformed or non-positive values fall back to the defaults.
	t.Setenv("SESSION_SWEEP_INTERVAL", "soon")
	t.Setenv("SESSION_MAX_IDLE", "-10m")
	require.Equal(t, 30*time.Minute, c.GetSessionSweepInterval())
	require.Equal(t, 60*time.Minute, c.GetSessionMaxIdle())
}

func TestAllowedOriginsParsing(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	c := config.New()

	origins := c.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://b.example.com"))
	require.False(t, origins.IsAllowedOrigin("*"))
	require.False(t, origins.IsAllowedOrigin("https://c.example.com"))
}
