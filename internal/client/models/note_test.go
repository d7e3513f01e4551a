package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/timex"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNote_JSONRoundTrip(t *testing.T) {
	n := Note{
		ID:         123456,
		TitleText:  "Hello",
		Content:    "# Hello\nWorld",
		PlainText:  "Hello\nWorld",
		DateString: "08:30 15/10/2026",
		ISODate:    time.Date(2026, 10, 15, 1, 30, 0, 0, time.UTC),
		Shared:     true,
	}

	b, err := json.Marshal(n)
	require.NoError(t, err)

	var got Note
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Empty(t, cmp.Diff(n, got))
}

func TestNote_UnmarshalLegacyFieldNames(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Note
	}{
		{
			name: "markdown front end",
			in:   `{"id":111111,"titleText":"T","markdownContent":"# T","plainText":"T","shared":false}`,
			want: Note{ID: 111111, TitleText: "T", Content: "# T", PlainText: "T"},
		},
		{
			name: "rich text front end",
			in:   `{"id":222222,"titleText":"T","content":"<h1>T</h1>","textContent":"body","shared":true}`,
			want: Note{ID: 222222, TitleText: "T", Content: "<h1>T</h1>", PlainText: "body", Shared: true},
		},
		{
			name: "unified names win over legacy",
			in:   `{"id":333333,"content":"new","markdownContent":"old","plainText":"p","textContent":"q"}`,
			want: Note{ID: 333333, Content: "new", PlainText: "p"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Note
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Empty(t, cmp.Diff(tt.want, got))
		})
	}
}

func TestNote_UnmarshalRejectsNonObject(t *testing.T) {
	var n Note
	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &n))
	require.Error(t, json.Unmarshal([]byte(`"note"`), &n))
}

func TestNote_Overview(t *testing.T) {
	n := Note{ID: 123456, TitleText: "Hello", DateString: "08:30 15/10/2026"}
	assert.Equal(t, "123456  Hello  (08:30 15/10/2026)", n.Overview())

	n.Shared = true
	assert.Equal(t, "123456  Hello  (08:30 15/10/2026) [shared]", n.Overview())
}

func TestParseSortField(t *testing.T) {
	f, err := ParseSortField("")
	require.NoError(t, err)
	assert.Equal(t, SortByTitle, f)

	f, err = ParseSortField("date")
	require.NoError(t, err)
	assert.Equal(t, SortByDate, f)

	_, err = ParseSortField("size")
	require.Error(t, err)
}

func TestChallenge_DecodeAndExpiry(t *testing.T) {
	var c Challenge
	require.NoError(t, json.Unmarshal([]byte(`{"captcha":"ab12cd","expired":1792053000000}`), &c))
	assert.Equal(t, "ab12cd", c.Code)

	expiry := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)
	assert.True(t, expiry.Equal(c.Expiry.Time))
	assert.False(t, c.Expired(expiry.Add(-time.Second)))
	assert.True(t, c.Expired(expiry))
}

func TestChallenge_ZeroValueIsExpired(t *testing.T) {
	c := Challenge{Expiry: timex.UnixMillis{}}
	assert.True(t, c.Expired(time.Now()))
}
