package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
	"github.com/dmitrijs2005/notekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration so "5s" and integer nanoseconds are both accepted.
// Empty values leave the corresponding Config field unchanged.
type JsonConfig struct {
	ServerURL         string         `json:"server_url"`
	PublicURL         string         `json:"public_url"`
	DatabasePath      string         `json:"database_path"`
	ExportDir         string         `json:"export_dir"`
	ChallengeCooldown timex.Duration `json:"challenge_cooldown"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	TimeZone          string         `json:"time_zone"`
	DateLayout        string         `json:"date_layout"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	S3Prefix          string         `json:"s3_prefix"`
	LogLevel          string         `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without such a flag it does nothing. Read and decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.PublicURL, jc.PublicURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.ExportDir, jc.ExportDir)
	setString(&cfg.TimeZone, jc.TimeZone)
	setString(&cfg.DateLayout, jc.DateLayout)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3Prefix, jc.S3Prefix)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.ChallengeCooldown.Duration > 0 {
		cfg.ChallengeCooldown = jc.ChallengeCooldown.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
