package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.ActivityTTL)
	assert.Empty(t, cfg.Brokers())
}

func TestLoadEnvFileAndOverride(t *testing.T) {
	dir := t.TempDir()
	content := "DB_DRIVER=postgres\nKAFKA_BROKERS=a:9092, b:9092,\nACTIVITY_TTL=1h\nSMTP_PORT=587\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Setenv("HTTP_ADDR", ":9000")

	cfg, err := load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Brokers())
	assert.Equal(t, time.Hour, cfg.ActivityTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	_, err := load(t.TempDir())
	assert.Error(t, err)
}
