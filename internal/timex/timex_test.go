package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"5s"`, want: 5 * time.Second},
		{name: "nanoseconds", in: `1000000000`, want: time.Second},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}

func TestUnixMillis_RoundTrip(t *testing.T) {
	at := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)

	b, err := json.Marshal(UnixMillis{Time: at})
	require.NoError(t, err)
	assert.Equal(t, "1792053000000", string(b))

	var got UnixMillis
	require.NoError(t, json.Unmarshal(b, &got))
	assert.True(t, at.Equal(got.Time))
}

func TestUnixMillis_AcceptsRFC3339(t *testing.T) {
	var got UnixMillis
	require.NoError(t, json.Unmarshal([]byte(`"2026-10-15T15:30:00+07:00"`), &got))
	assert.True(t, time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC).Equal(got.Time))
}

func TestUnixMillis_Invalid(t *testing.T) {
	var got UnixMillis
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &got))
	require.Error(t, json.Unmarshal([]byte(`{}`), &got))
}
