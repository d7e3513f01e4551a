package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeConfig(t, `{"address":":7000","captcha_ttl":"90s","shutdown_timeout":2000000000}`)

	t.Run("overlays set keys", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", path}

		var cfg Config
		cfg.LoadDefaults()
		parseJson(&cfg)

		assert.Equal(t, ":7000", cfg.Address)
		assert.Equal(t, 90*time.Second, cfg.CaptchaTTL)
		assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, 6, cfg.CaptchaLength)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("flags override json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path, "-a", ":7001"}

		cfg := LoadConfig()
		assert.Equal(t, ":7001", cfg.Address)
		assert.Equal(t, 90*time.Second, cfg.CaptchaTTL)
	})

	t.Run("no file", func(t *testing.T) {
		os.Args = []string{"testbin"}

		var cfg Config
		cfg.LoadDefaults()
		parseJson(&cfg)
		assert.Equal(t, ":8080", cfg.Address)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.json")}
		var cfg Config
		require.Panics(t, func() { parseJson(&cfg) })
	})

	t.Run("invalid json panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", writeConfig(t, `{"address":`)}
		var cfg Config
		require.Panics(t, func() { parseJson(&cfg) })
	})
}
