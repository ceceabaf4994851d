package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REPLY_DELAY", "")
	t.Setenv("NATS_URL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 900*time.Millisecond, cfg.ReplyDelay)
	assert.Equal(t, "vi", cfg.DefaultLanguage)
	assert.Empty(t, cfg.NATSURL)
	assert.NotEmpty(t, cfg.PreferencesFile)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REPLY_DELAY", "2s")
	t.Setenv("RATE_LIMIT_REQUESTS", "7")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("RATE_LIMIT_WINDOW", "not-a-duration")

	cfg := Load()
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 2*time.Second, cfg.ReplyDelay)
	assert.Equal(t, 7, cfg.RateLimitRequests)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg := Load()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--port", "7000", "--reply-delay", "50ms", "--language", "en"}))

	assert.Equal(t, "7000", cfg.ServerPort)
	assert.Equal(t, 50*time.Millisecond, cfg.ReplyDelay)
	assert.Equal(t, "en", cfg.DefaultLanguage)
}
