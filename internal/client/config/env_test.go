package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_OverlaysOnlySetVariables(t *testing.T) {
	cfg := defaults()
	parseEnv(cfg, envconfig.MapLookuper(map[string]string{
		"USUARIOS_REQUEST_TIMEOUT":  "4s",
		"USUARIOS_REDIS_DB":         "3",
		"USUARIOS_SLOT_NAME":        "sesion",
		"USUARIOS_AUTO_LOGIN_DELAY": "0s",
		"REQUEST_TIMEOUT":           "99s",
	}))

	assert.Equal(t, 4*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "sesion", cfg.SlotName)
	assert.Equal(t, time.Duration(0), cfg.AutoLoginDelay)
	assert.Equal(t, "http://localhost:5000/api", cfg.ServerBaseURL)
}

func TestParseEnv_BadValuePanics(t *testing.T) {
	require.Panics(t, func() {
		parseEnv(defaults(), envconfig.MapLookuper(map[string]string{"USUARIOS_REDIS_DB": "zero"}))
	})
}

func TestLoadDotEnv_ExplicitFile(t *testing.T) {
	const key = "USUARIOS_DOTENV_TEST_BASE_URL"
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=http://dotenv/api\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	loadDotEnv([]string{"-e", path})
	assert.Equal(t, "http://dotenv/api", os.Getenv(key))
}

func TestLoadDotEnv_RealEnvironmentWins(t *testing.T) {
	const key = "USUARIOS_DOTENV_TEST_LEVEL"
	t.Setenv(key, "error")
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=debug\n"), 0o600))

	loadDotEnv([]string{"-env-file", path})
	assert.Equal(t, "error", os.Getenv(key))
}

func TestLoadDotEnv_MissingExplicitFilePanics(t *testing.T) {
	require.Panics(t, func() { loadDotEnv([]string{"-e", filepath.Join(t.TempDir(), "nope.env")}) })
}
