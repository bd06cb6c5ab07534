package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROVIDER", "")
	t.Setenv("CLAIM_TTL", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0 * * * *", cfg.DispatchSchedule)
	assert.Equal(t, "UTC", cfg.SchedulerTimezone)
	assert.Equal(t, 2*time.Hour, cfg.ClaimTTL)
	assert.Equal(t, "always", cfg.WeekPolicy)
	assert.Equal(t, ProviderStub, cfg.Provider)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CLAIM_TTL", "45m")
	t.Setenv("WEEK_POLICY", "elapsed")
	t.Setenv("PROVIDER", ProviderWebhook)
	t.Setenv("WEBHOOK_SECRET", "s3cret")

	cfg := Load()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 45*time.Minute, cfg.ClaimTTL)
	assert.Equal(t, "elapsed", cfg.WeekPolicy)
	assert.Equal(t, ProviderWebhook, cfg.Provider)
	assert.Equal(t, "s3cret", cfg.WebhookSecret)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadOpenAIWithoutKeyFallsBackToStub(t *testing.T) {
	t.Setenv("PROVIDER", ProviderOpenAI)
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Load()

	assert.Equal(t, ProviderStub, cfg.Provider)
}
