package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

var flagNames = []string{"-a", "-w", "-d", "-o", "-i", "-t", "-z", "-b", "-g", "-e", "-u", "-p", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
// Only the flags listed in flagNames are considered (see flagx.FilterArgs),
// so -c/-config and unknown arguments do not interfere.
func parseFlags(cfg *Config) {
	parseArgs(cfg, os.Args[1:])
}

func parseArgs(cfg *Config, argv []string) {
	args := flagx.FilterArgs(argv, flagNames)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "sharing service API base URL")
	fs.StringVar(&cfg.PublicURL, "w", cfg.PublicURL, "public address used in share links")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local note database file")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "export directory")
	cooldown := fs.Int("i", int(cfg.ChallengeCooldown.Seconds()), "captcha request cooldown (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.TimeZone, "z", cfg.TimeZone, "time zone for note dates")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket for exports")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 endpoint (MinIO)")
	fs.StringVar(&cfg.S3AccessKey, "u", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "p", cfg.S3SecretKey, "S3 secret key")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ChallengeCooldown = time.Duration(*cooldown) * time.Second
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
