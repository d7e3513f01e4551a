// Package config loads runtime configuration for the notekeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   sharing service API base URL
//	-w string   public address used in share links
//	-d string   local note database file
//	-o string   export directory
//	-i int      captcha request cooldown (seconds)
//	-t int      request timeout (seconds)
//	-z string   time zone for note dates
//	-b -g -e -u -p string   S3 bucket, region, endpoint, access key, secret key
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080/api/notes",
//	  "database_path": "notekeeper.db",
//	  "challenge_cooldown": "5s",
//	  "time_zone": "Asia/Ho_Chi_Minh",
//	  "s3_bucket": "notekeeper",
//	  "s3_base_endpoint": "http://127.0.0.1:9000"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
