package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

var flagNames = []string{"-a", "-d", "-t", "-n", "-s", "-l"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-t int      captcha validity, seconds
//	-n int      captcha length
//	-s int      shutdown grace period, seconds
//	-l string   log level
func parseFlags(cfg *Config) {
	parseArgs(cfg, os.Args[1:])
}

func parseArgs(cfg *Config, argv []string) {
	args := flagx.FilterArgs(argv, flagNames)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Address, "a", cfg.Address, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	ttl := fs.Int("t", int(cfg.CaptchaTTL.Seconds()), "captcha validity (in seconds)")
	fs.IntVar(&cfg.CaptchaLength, "n", cfg.CaptchaLength, "captcha length")
	shutdown := fs.Int("s", int(cfg.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.CaptchaTTL = time.Duration(*ttl) * time.Second
	cfg.ShutdownTimeout = time.Duration(*shutdown) * time.Second
}
