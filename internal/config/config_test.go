package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	log "github.com/sirupsen/logrus"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGO_DB", "JWT_EXPIRY", "NOTIFIER", "RATE_LIMIT_REQUESTS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "fleet", cfg.Mongo.Database)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, "log", cfg.Notifier.Backend)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("NOTIFIER", "MQTT")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, "mqtt", cfg.Notifier.Backend)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, 60, cfg.RateLimit.WindowSeconds)
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())

	cfg := &Config{Log: LogConfig{Level: "debug", Format: "json"}}
	cfg.SetupLogging()
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	_, ok := log.StandardLogger().Formatter.(*log.JSONFormatter)
	assert.True(t, ok)

	cfg = &Config{Log: LogConfig{Level: "nope"}}
	cfg.SetupLogging()
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
