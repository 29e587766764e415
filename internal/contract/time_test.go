package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

func TestParseRelativeTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{name: "plural months mixed case", input: "3 MoNtHs AgO", expected: fixedNow.AddDate(0, -3, 0)},
		{name: "singular week", input: "1 Week Ago", expected: fixedNow.Add(-7 * 24 * time.Hour)},
		{name: "years", input: "2 years ago", expected: fixedNow.AddDate(-2, 0, 0)},
		{name: "hours", input: "36 hours ago", expected: fixedNow.Add(-36 * time.Hour)},
		{name: "minutes with padding", input: "  5 minutes ago ", expected: fixedNow.Add(-5 * time.Minute)},
		{name: "missing ago", input: "2 years", expectError: true},
		{name: "unsupported unit", input: "4 decades ago", expectError: true},
		{name: "spelled number", input: "one year ago", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseLookbackDuration(t *testing.T) {
	const day = 24 * time.Hour

	tests := []struct {
		name      string
		input     string
		want      time.Duration
		expectErr bool
	}{
		{"go duration", "168h", 7 * day, false},
		{"minutes", "5 minutes", 5 * time.Minute, false},
		{"one hour", "1 hour", time.Hour, false},
		{"days", "7 days", 7 * day, false},
		{"weeks", "4 weeks", 28 * day, false},
		{"month is thirty days", "6 months", 180 * day, false},
		{"year is 365 days", "1 year", 365 * day, false},
		{"mixed case", "3 MoNtHs", 90 * day, false},
		{"extra space", " 1  day ", day, false},
		{"negative go duration", "-1h", 0, true},
		{"zero quantity", "0 days", 0, true},
		{"missing value", "months", 0, true},
		{"missing unit", "3", 0, true},
		{"unsupported unit", "3 decades", 0, true},
		{"fractional quantity", "1.5 days", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLookbackDuration(tt.input)
			if tt.expectErr {
				assert.Error(t, err, "input %q", tt.input)
				return
			}
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func FuzzParseRelativeTime(f *testing.F) {
	for _, seed := range []string{"1 year ago", "2 months ago", "3 weeks ago", "0 days ago", "9999999999 hours ago"} {
		f.Add(seed)
	}
	f.Fuzz(func(_ *testing.T, input string) {
		_, _ = ParseRelativeTime(input, time.Now())
	})
}

func FuzzParseLookbackDuration(f *testing.F) {
	for _, seed := range []string{"1 year", "2 months", "720h", "0 years", "-5m"} {
		f.Add(seed)
	}
	f.Fuzz(func(_ *testing.T, input string) {
		_, _ = ParseLookbackDuration(input)
	})
}
