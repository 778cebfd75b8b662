package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "database", cfg.Guest.Backend)
	assert.Equal(t, int64(10), cfg.Guest.Limit)
	assert.Equal(t, "hidden", cfg.Collaboration.DeletedChatPolicy)
	assert.False(t, cfg.Collaboration.CollaboratorsMayInvite)
	assert.Equal(t, 10.0, cfg.Ai.FreeAudioMinutes)
	assert.Empty(t, cfg.App.TrustedProxies)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GUEST_CHAT_LIMIT", "25")
	t.Setenv("GUEST_LIMITER_BACKEND", "redis")
	t.Setenv("COLLABORATORS_MAY_INVITE", "true")
	t.Setenv("LLM_RETRY_BACKOFF", "1s")
	t.Setenv("FREE_AUDIO_MINUTES", "2.5")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, ,10.0.0.2")

	cfg := Load()

	assert.Equal(t, int64(25), cfg.Guest.Limit)
	assert.Equal(t, "redis", cfg.Guest.Backend)
	assert.True(t, cfg.Collaboration.CollaboratorsMayInvite)
	assert.Equal(t, time.Second, cfg.Ai.RetryBackoff)
	assert.Equal(t, 2.5, cfg.Ai.FreeAudioMinutes)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.App.TrustedProxies)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, "invalid DB_DRIVER"},
		{"bad guest backend", func(c *Config) { c.Guest.Backend = "file" }, "invalid GUEST_LIMITER_BACKEND"},
		{"bad policy", func(c *Config) { c.Collaboration.DeletedChatPolicy = "purge" }, "invalid DELETED_CHAT_POLICY"},
		{"bad provider", func(c *Config) { c.Ai.LLMProvider = "gemini" }, "invalid LLM_PROVIDER"},
		{"zero limit", func(c *Config) { c.Guest.Limit = 0 }, "GUEST_CHAT_LIMIT"},
		{"sub second ttl", func(c *Config) { c.Guest.CounterTTL = 500 * time.Millisecond }, "GUEST_COUNTER_TTL"},
		{"negative ttl", func(c *Config) { c.Guest.CounterTTL = -time.Second }, "GUEST_COUNTER_TTL"},
		{"gcs without bucket", func(c *Config) { c.Storage.Backend = "gcs" }, "GCS_BUCKET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
