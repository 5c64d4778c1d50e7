package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Live.Debounce)
	assert.Equal(t, "cms:changes", cfg.Live.Channel)
	assert.Equal(t, "memory", cfg.Blob.Driver)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/site")
	t.Setenv("LIVE_DEBOUNCE", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Live.Debounce)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Driver: "memory"},
			Blob:     BlobConfig{Driver: "memory"},
			Live:     LiveConfig{Debounce: time.Second},
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Blob.Driver = "s3"
	assert.Error(t, c.Validate())

	c = base()
	c.Database.Driver = "mysql"
	assert.Error(t, c.Validate())

	c = base()
	c.App.Environment = "production"
	assert.Error(t, c.Validate())

	c = base()
	c.Live.Debounce = 0
	assert.Error(t, c.Validate())
}
