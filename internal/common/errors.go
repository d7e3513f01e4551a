// Package common defines shared constants and sentinel errors used across
// the notekeeper client and the sharing server. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("id already exists")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
	ErrEmptyNote  = errors.New("note is empty")

	// Captcha validation errors. A failed validation keeps the cached
	// challenge so the user may retry until it expires.
	ErrCaptchaRequired = errors.New("captcha is required")
	ErrCaptchaMismatch = errors.New("wrong captcha")
	ErrCaptchaExpired  = errors.New("captcha has expired")
	ErrNoChallenge     = errors.New("request a captcha first")

	// Backpressure latches.
	ErrCooldown           = errors.New("wait a few seconds before requesting a new captcha")
	ErrSubmissionInFlight = errors.New("wait for the previous response")

	// Reference and bundle errors.
	ErrInvalidReference = errors.New("note code must be 6 to 9 digits")
	ErrImportFormat     = errors.New("bundle must be a JSON array of notes")
	ErrNothingToExport  = errors.New("no notes selected for export")
)
