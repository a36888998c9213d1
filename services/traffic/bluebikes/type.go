package bluebikes

import (
	"strings"
	"time"
)

const (
	storedTimeFormat = "2006-01-02 15:04:05"
)

// Layouts are tried in order. Fractional seconds are accepted by every layout.
var (
	zonedTimeLayouts = []string{
		time.RFC3339,
		"2006-01-02 15:04:05Z07:00",
	}
	localTimeLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"01/02/2006 15:04:05",
		"01/02/2006 15:04",
	}
)

// CSVTime is a trip timestamp parsed from CSV.
// Values which cannot be parsed leave the time zero instead of failing the whole file.
type CSVTime struct {
	time.Time

	zoned bool
}

// MarshalCSV marshals the value into a string format
func (t CSVTime) MarshalCSV() (string, error) {
	if t.IsZero() {
		return "", nil
	}
	if t.zoned {
		return t.Format(time.RFC3339), nil
	}
	return t.Format(storedTimeFormat), nil
}

// UnmarshalCSV takes the string representation from a CSV file and attempts to convert it to a time.
func (t *CSVTime) UnmarshalCSV(csv string) error {
	*t = parseTime(csv)
	return nil
}

// In returns the timestamp in the supplied location.
// Timestamps without an offset are read as wall clock times of that location.
func (t CSVTime) In(loc *time.Location) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	if t.zoned {
		return t.Time.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

func parseTime(value string) CSVTime {
	value = strings.TrimSpace(value)
	if len(value) < 1 {
		return CSVTime{}
	}

	for _, layout := range zonedTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return CSVTime{Time: parsed, zoned: true}
		}
	}
	for _, layout := range localTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return CSVTime{Time: parsed}
		}
	}
	return CSVTime{}
}

func formatStoredTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(storedTimeFormat)
}
