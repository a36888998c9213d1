package traffic

// Aggregate counts the departures and arrivals of every roster station across the supplied trips.
// Departures are grouped by start station and arrivals by end station; trips referencing a code
// that is not in the roster do not contribute to any station.
// Each call builds a new Metrics value.
func Aggregate(stations []*Station, trips []*Trip) Metrics {
	departures := map[string]int{}
	arrivals := map[string]int{}

	for _, trip := range trips {
		departures[trip.StartStationCode]++
		arrivals[trip.EndStationCode]++
	}

	metrics := make(Metrics, len(stations))
	for _, station := range stations {
		sm := StationMetrics{
			Arrivals:   arrivals[station.Code],
			Departures: departures[station.Code],
		}
		sm.TotalTraffic = sm.Arrivals + sm.Departures
		metrics[station.Code] = sm
	}
	return metrics
}
