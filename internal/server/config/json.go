package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
	"github.com/dmitrijs2005/notekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept both "2m" strings and integer nanoseconds.
type JsonConfig struct {
	Address         string         `json:"address"`
	DatabaseDSN     string         `json:"database_dsn"`
	CaptchaTTL      timex.Duration `json:"captcha_ttl"`
	CaptchaLength   int            `json:"captcha_length"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	LogLevel        string         `json:"log_level"`
}

// parseJson overlays Config with the JSON file named by -c or -config.
// Zero values in the file keep the current setting. Read and decode errors
// panic.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Address != "" {
		cfg.Address = c.Address
	}
	if c.DatabaseDSN != "" {
		cfg.DatabaseDSN = c.DatabaseDSN
	}
	if c.CaptchaTTL.Duration > 0 {
		cfg.CaptchaTTL = c.CaptchaTTL.Duration
	}
	if c.CaptchaLength > 0 {
		cfg.CaptchaLength = c.CaptchaLength
	}
	if c.ShutdownTimeout.Duration > 0 {
		cfg.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
}
