package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_DSN", "SITE_URL", "SESSION_TTL", "DEGRADE_LIST_ERRORS", "CLOUDINARY_CLOUD_NAME"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.DegradeListErrors)
	assert.False(t, cfg.Cloudinary.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("SITE_URL", "https://example.test/")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("DEGRADE_LIST_ERRORS", "false")
	t.Setenv("COOKIE_SECURE", "not-a-bool")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_UPLOAD_PRESET", "unsigned")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "https://example.test", cfg.SiteURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.DegradeListErrors)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.Cloudinary.Enabled())
}
