package report

import (
	"fmt"
	"time"
)

const timestampLayout = "02/01/2006 15:04:05"

// ISO-like layouts accepted for string timestamps, tried in order.
var stringLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatTimestamp renders a timestamp as DD/MM/YYYY HH:MM:SS. It accepts
// unix seconds (integer or float), ISO-8601-ish strings, and time.Time.
// Nil and zero values render as "N/A". Unparseable strings are returned
// verbatim rather than failing the report.
func FormatTimestamp(v any) string {
	switch t := v.(type) {
	case nil:
		return "N/A"
	case time.Time:
		if t.IsZero() {
			return "N/A"
		}
		return t.Format(timestampLayout)
	case int:
		return formatUnix(int64(t))
	case int64:
		return formatUnix(t)
	case float64:
		return formatUnix(int64(t))
	case string:
		if t == "" {
			return "N/A"
		}
		for _, layout := range stringLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.Format(timestampLayout)
			}
		}
		return t
	default:
		return fmt.Sprint(v)
	}
}

func formatUnix(sec int64) string {
	if sec == 0 {
		return "N/A"
	}
	return time.Unix(sec, 0).Format(timestampLayout)
}
