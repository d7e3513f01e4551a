// Package models defines the client-side note types and their wire shapes.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/timex"
)

// Note is the only persisted entity. TitleText and PlainText are derived
// from Content on every save and are never edited directly.
type Note struct {
	ID         int64     `json:"id"`
	TitleText  string    `json:"titleText"`
	Content    string    `json:"content"`
	PlainText  string    `json:"plainText"`
	DateString string    `json:"dateString"`
	ISODate    time.Time `json:"isoDate"`
	Shared     bool      `json:"shared"`
}

// noteJSON mirrors Note and additionally accepts the field names used by
// the older rich-text and markdown front ends.
type noteJSON struct {
	ID              int64     `json:"id"`
	TitleText       string    `json:"titleText"`
	Content         *string   `json:"content"`
	MarkdownContent *string   `json:"markdownContent"`
	PlainText       *string   `json:"plainText"`
	TextContent     *string   `json:"textContent"`
	DateString      string    `json:"dateString"`
	ISODate         time.Time `json:"isoDate"`
	Shared          bool      `json:"shared"`
}

func firstNonNil(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}

func (n *Note) UnmarshalJSON(b []byte) error {
	var raw noteJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*n = Note{
		ID:         raw.ID,
		TitleText:  raw.TitleText,
		Content:    firstNonNil(raw.Content, raw.MarkdownContent),
		PlainText:  firstNonNil(raw.PlainText, raw.TextContent),
		DateString: raw.DateString,
		ISODate:    raw.ISODate,
		Shared:     raw.Shared,
	}
	return nil
}

// Overview is the one-line list representation of a note.
func (n Note) Overview() string {
	flag := ""
	if n.Shared {
		flag = " [shared]"
	}
	return fmt.Sprintf("%d  %s  (%s)%s", n.ID, n.TitleText, n.DateString, flag)
}

// SortField names one of the secondary indexes of the note store.
type SortField string

const (
	SortByTitle   SortField = "title"
	SortByDate    SortField = "date"
	SortByContent SortField = "content"
)

// ParseSortField validates s; the empty string selects SortByTitle.
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case "", SortByTitle:
		return SortByTitle, nil
	case SortByDate, SortByContent:
		return SortField(s), nil
	default:
		return "", fmt.Errorf("unknown sort field %q (want title, date or content)", s)
	}
}

// Challenge is the captcha issued by the sharing service. It lives in
// memory only.
type Challenge struct {
	Code   string           `json:"captcha"`
	Expiry timex.UnixMillis `json:"expired"`
}

// Expired reports whether the challenge is no longer valid at now.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.Expiry.Time)
}
