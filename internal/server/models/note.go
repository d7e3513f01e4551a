// Package models defines the records served by the sharing server.
package models

import (
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/timex"
)

// Note is a shared note as stored and served. Derived fields are computed
// by the client and kept verbatim.
type Note struct {
	ID         int64     `json:"id"`
	TitleText  string    `json:"titleText"`
	Content    string    `json:"content"`
	PlainText  string    `json:"plainText"`
	DateString string    `json:"dateString"`
	ISODate    time.Time `json:"isoDate"`
	Shared     bool      `json:"shared"`
}

// Challenge is an issued captcha.
type Challenge struct {
	Code   string           `json:"captcha"`
	Expiry timex.UnixMillis `json:"expired"`
}
