package config

import (
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/dmitrijs2005/notekeeper/internal/client/sinks"
)

// Config holds runtime settings for the notekeeper client.
//
// Fields:
//   - ServerURL: base URL of the sharing service API.
//   - PublicURL: address share links point to.
//   - DatabasePath: location of the local SQLite note store.
//   - ExportDir: directory exported bundles are written to when no S3
//     bucket is configured.
//   - ChallengeCooldown: minimum gap between two captcha requests.
//   - RequestTimeout: timeout of a single call to the sharing service.
//   - TimeZone, DateLayout: how note dates are rendered.
//   - S3*: optional S3/MinIO export target; used when S3Bucket is set.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL         string
	PublicURL         string
	DatabasePath      string
	ExportDir         string
	ChallengeCooldown time.Duration
	RequestTimeout    time.Duration
	TimeZone          string
	DateLayout        string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api/notes"
	c.PublicURL = "http://127.0.0.1:8080/"
	c.DatabasePath = "notekeeper.db"
	c.ExportDir = "exports"
	c.ChallengeCooldown = services.DefaultCooldown
	c.RequestTimeout = 10 * time.Second
	c.TimeZone = "Asia/Ho_Chi_Minh"
	c.DateLayout = services.DefaultDateLayout
	c.S3Region = "us-east-1"
	c.LogLevel = "warn"
}

// S3 returns the export bucket settings, and false when no bucket is set.
func (c *Config) S3() (sinks.S3Config, bool) {
	if c.S3Bucket == "" {
		return sinks.S3Config{}, false
	}
	return sinks.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		Prefix:       c.S3Prefix,
	}, true
}

// DateFormat resolves TimeZone. An unknown zone falls back to UTC and is
// reported through the returned error.
func (c *Config) DateFormat() (services.DateFormat, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return services.DateFormat{Location: time.UTC, Layout: c.DateLayout}, err
	}
	return services.DateFormat{Location: loc, Layout: c.DateLayout}, nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
