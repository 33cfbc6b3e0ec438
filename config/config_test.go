package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GENAI_API_KEY_PRIMARY", "key-a")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8083, cfg.Port)
	assert.Equal(t, ":8083", cfg.Addr())
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, "secret", cfg.AnonSecret)
	assert.Equal(t, 3, cfg.BalancerMaxFailures)
	assert.Equal(t, 300*time.Second, cfg.BalancerResetWindow)
	assert.Equal(t, 3, cfg.GenerationMaxAttempts)
	assert.Equal(t, 2, cfg.GenerationTransportRetries)
	assert.Equal(t, time.Second, cfg.GenerationRetryDelay)
	assert.Equal(t, 5, cfg.HistoryMaxLength)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GENAI_API_KEY_PRIMARY", "key-a")
	t.Setenv("STORE_BACKEND", "Firestore")
	t.Setenv("PORT", "9000")
	t.Setenv("BALANCER_RESET_WINDOW", "90s")
	t.Setenv("HISTORY_MAX_LENGTH", "not-a-number")
	t.Setenv("DEBUG", "true")
	t.Setenv("DB_USERNAME", "combina")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "combina")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "firestore", cfg.StoreBackend)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.BalancerResetWindow)
	assert.Equal(t, 5, cfg.HistoryMaxLength)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "postgres://combina:pw@localhost:5432/combina", cfg.PostgresDSN())
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GENAI_API_KEY_PRIMARY", "key-a")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_BACKEND", "mongo")
	_, err = Load()
	assert.Error(t, err)
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Env: "prod"}).IsProduction())
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.False(t, (&Config{Env: "dev"}).IsProduction())
}
