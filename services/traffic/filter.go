package traffic

// FilterTrips returns the trips with a start or end time within WindowRadius minutes of the window.
// With AnyTime the supplied slice is returned as is. The supplied slice is never modified.
func FilterTrips(trips []*Trip, window Window) []*Trip {
	if !window.IsFiltered() {
		return trips
	}

	var filtered []*Trip
	for _, trip := range trips {
		if tripInWindow(trip, window) {
			filtered = append(filtered, trip)
		}
	}
	return filtered
}

func tripInWindow(trip *Trip, window Window) bool {
	if start, ok := MinuteOfDay(trip.StartedAt); ok && window.Contains(start) {
		return true
	}
	if end, ok := MinuteOfDay(trip.EndedAt); ok && window.Contains(end) {
		return true
	}
	return false
}
