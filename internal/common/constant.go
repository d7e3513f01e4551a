package common

// CaptchaHeaderName carries the captcha response on share submissions.
const CaptchaHeaderName = "Captcha"

// RequestIDHeaderName carries a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// NoteQueryParam is the URL query parameter that references a shared note.
const NoteQueryParam = "note"

// NoTitle is stored as titleText when the content has no heading.
const NoTitle = "No title"

// Note identifiers have six to nine decimal digits.
const (
	MinNoteID int64 = 100000
	MaxNoteID int64 = 999999999
)
