package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "N/A"},
		{"zero int", 0, "N/A"},
		{"zero int64", int64(0), "N/A"},
		{"empty string", "", "N/A"},
		{"zero time", time.Time{}, "N/A"},
		{"garbage string", "not-a-date", "not-a-date"},
		{"other type", []int{1}, "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatTimestamp(tt.in))
		})
	}
}

func TestFormatTimestampUnixSeconds(t *testing.T) {
	got := FormatTimestamp(1700000000)
	require.NotEqual(t, "N/A", got)
	require.Len(t, got, len("DD/MM/YYYY HH:MM:SS"))

	// int64 and float64 render identically.
	require.Equal(t, got, FormatTimestamp(int64(1700000000)))
	require.Equal(t, got, FormatTimestamp(float64(1700000000)))
}

func TestFormatTimestampStrings(t *testing.T) {
	got := FormatTimestamp("2023-11-14T22:13:20Z")
	require.Equal(t, "14/11/2023 22:13:20", got)

	got = FormatTimestamp("2023-11-14 22:13:20")
	require.Equal(t, "14/11/2023 22:13:20", got)

	got = FormatTimestamp("2023-11-14")
	require.Equal(t, "14/11/2023 00:00:00", got)
}

func TestFormatTimestampTime(t *testing.T) {
	ts := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	require.Equal(t, "14/11/2023 22:13:20", FormatTimestamp(ts))
}
