package traffic

import "time"

// Trip is a single ride from the trip log.
// Either station code may reference a station that is not part of the roster.
// A zero StartedAt or EndedAt means the timestamp was missing or could not be parsed.
type Trip struct {
	ID               string
	StartStationCode string
	EndStationCode   string
	StartedAt        time.Time
	EndedAt          time.Time
}

// MinuteOfDay returns the number of minutes since midnight of the wall clock time of t.
// Seconds are ignored. The second return value is false if t is the zero time.
func MinuteOfDay(t time.Time) (int, bool) {
	if t.IsZero() {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
