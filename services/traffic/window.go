package traffic

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// AnyTime disables time filtering.
	AnyTime Window = -1

	// WindowRadius is the number of minutes either side of the window a trip endpoint may fall within.
	WindowRadius = 60

	// MinutesPerDay is the number of distinct filter positions.
	MinutesPerDay = 24 * 60

	anyTimeLabel    = "(any time)"
	timeLabelFormat = "3:04 PM"
)

var (
	// ErrInvalidWindow is returned if a time window is neither AnyTime nor a minute of the day.
	ErrInvalidWindow = errors.New("invalid time window")
)

// Window is the time-of-day filter, expressed as minutes since midnight, or AnyTime.
type Window int

// ParseWindow converts user input into a validated window.
func ParseWindow(s string) (Window, error) {
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return AnyTime, errors.Wrapf(ErrInvalidWindow, "parsing %q", s)
	}

	w := Window(val)
	if err := w.Validate(); err != nil {
		return AnyTime, err
	}
	return w, nil
}

// Validate returns ErrInvalidWindow if the window is out of range.
func (w Window) Validate() error {
	if w == AnyTime || (w >= 0 && int(w) < MinutesPerDay) {
		return nil
	}
	return errors.Wrapf(ErrInvalidWindow, "value %d", int(w))
}

// IsFiltered returns true if the window restricts trips.
func (w Window) IsFiltered() bool {
	return w != AnyTime
}

// Contains returns true if the minute of day is within WindowRadius minutes of the window.
// Minutes do not wrap around midnight.
func (w Window) Contains(minute int) bool {
	delta := int(w) - minute
	if delta < 0 {
		delta = -delta
	}
	return delta <= WindowRadius
}

// Label returns the clock time of the window, e.g. "10:00 AM", or the any-time indicator.
func (w Window) Label() string {
	if !w.IsFiltered() {
		return anyTimeLabel
	}
	return FormatMinute(int(w))
}

// FormatMinute formats minutes since midnight as a short clock time.
func FormatMinute(minute int) string {
	return time.Date(2000, time.January, 1, 0, minute, 0, 0, time.UTC).Format(timeLabelFormat)
}
