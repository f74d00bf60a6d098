package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, 15, cfg.JWT.ExpireMinutes)
	assert.Equal(t, 7, cfg.JWT.RefreshExpireDays)
	assert.Equal(t, int64(5*1024*1024), cfg.Uploads.MaxSizeBytes)
	assert.Equal(t, 5, cfg.RateLimit.LoginMaxAttempts)
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRE_MINUTES", "30")
	t.Setenv("ENV", "production")
	t.Setenv("UPLOAD_MAX_SIZE_BYTES", "1048576")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30, cfg.JWT.ExpireMinutes)
	assert.Equal(t, int64(1048576), cfg.Uploads.MaxSizeBytes)
	assert.True(t, cfg.Production())
}

func TestDSNFromURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app:pw@db:5432/paroikiapp")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:pw@db:5432/paroikiapp", cfg.Database.DSN())
}

func TestDSNFromComponents(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "paroikiapp")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:pw@db.internal:5432/paroikiapp?sslmode=disable", cfg.Database.DSN())
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("JWT_EXPIRE_MINUTES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.JWT.ExpireMinutes)
}
