package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_TTL", "")
	t.Setenv("OTC_TTL", "")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.OtcTTL)
	assert.Equal(t, "memory", cfg.OtcStore)
	assert.Equal(t, int64(2), cfg.DefaultRoleID)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OTC_TTL", "2m")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("DISPOSABLE_EMAIL_DOMAINS", " Trash.io, ,spam.example ")

	cfg := Load()

	assert.Equal(t, 2*time.Minute, cfg.OtcTTL)
	assert.Equal(t, 11, cfg.BcryptCost, "invalid ints fall back to the default")
	assert.Equal(t, []string{"trash.io", "spam.example"}, cfg.DisposableDomains())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
