// Package sinks delivers exported note bundles: to a local directory
// (FileSink) or to an S3-compatible bucket such as MinIO (S3Sink).
package sinks
