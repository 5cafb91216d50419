package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME: foodgram\nJWT_SECRET: from-file\nAPP_PORT: \"9000\"\n"), 0o600))

	require.NoError(t, LoadConfig(path))
	assert.Equal(t, path, ConfigFile())
	assert.Equal(t, "foodgram", GetConfig("DB_NAME"))
	assert.Equal(t, "9000", GetConfig("APP_PORT"))
	assert.Equal(t, "disable", GetConfig("DB_SSLMODE"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))

	t.Setenv("JWT_SECRET", "from-env")
	assert.Equal(t, "from-env", GetConfig("JWT_SECRET"))
}

func TestLoadConfigMissingFile(t *testing.T) {
	require.NoError(t, LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Empty(t, ConfigFile())
	assert.Equal(t, "8080", GetConfig("APP_PORT"))
	assert.Equal(t, 1440, GetConfigInt("JWT_TTL_MINUTES", 60))
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME: [unterminated\n"), 0o600))
	assert.Error(t, LoadConfig(path))
}

func TestGetConfigInt(t *testing.T) {
	require.NoError(t, LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")))
	t.Setenv("RATE_LIMIT_PER_SECOND", "not-a-number")
	assert.Equal(t, 7, GetConfigInt("RATE_LIMIT_PER_SECOND", 7))
}
