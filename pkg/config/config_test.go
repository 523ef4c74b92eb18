package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CHANNEL_LOGO_CACHE_TTL_SECONDS", "60")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://mateswap.com, https://admin.mateswap.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, time.Minute, cfg.ChannelLogoCacheTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"https://mateswap.com", "https://admin.mateswap.com"}, cfg.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	cfg := &Config{RateLimitPerMinute: 10}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIREBASE_PROJECT_ID")
	assert.Contains(t, err.Error(), "FIREBASE_DATABASE_URL")

	cfg.FirebaseProject = "mateswap"
	cfg.FirebaseDatabaseURL = "https://mateswap-default-rtdb.firebaseio.com"
	assert.NoError(t, cfg.Validate())

	cfg.RateLimitPerMinute = 0
	assert.Error(t, cfg.Validate())
}
