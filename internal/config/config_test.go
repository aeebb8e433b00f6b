package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"MONGO_URI", "DB_NAME", "JWT_SECRET", "SESSION_TTL", "OTP_TTL", "PORT", "APP_ENV", "STORE_DRIVER", "SEED_FILE"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "perfumery", cfg.DBName)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.False(t, cfg.Production)
	assert.Len(t, cfg.Validate(), 2)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_TTL", "30")
	t.Setenv("OTP_TTL", "not-a-number")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("JWT_SECRET", "secret")

	cfg := FromEnv()
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.True(t, cfg.Production)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Empty(t, cfg.Validate())
}
