package traffic

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Station is a bike-share dock from the station roster.
// Code is the roster's short name and is unique across the roster.
type Station struct {
	Code     string
	Name     string
	Location orb.Point
}

// StationMetrics holds the traffic counts derived for a single station.
type StationMetrics struct {
	Arrivals     int `json:"arrivals"`
	Departures   int `json:"departures"`
	TotalTraffic int `json:"totalTraffic"`
}

// Summary returns the hover text for the station, e.g. "12 trips (5 departures, 7 arrivals)".
func (m StationMetrics) Summary() string {
	return fmt.Sprintf("%d trips (%d departures, %d arrivals)", m.TotalTraffic, m.Departures, m.Arrivals)
}

// Metrics maps a station code to its derived traffic.
// A Metrics value is never modified after Aggregate returns it, so it may be shared between snapshots.
type Metrics map[string]StationMetrics

// Get returns the metrics for the supplied station code, or zero counts if the code is unknown.
func (m Metrics) Get(code string) StationMetrics {
	return m[code]
}

// MaxTotal returns the largest total traffic across all stations.
func (m Metrics) MaxTotal() int {
	max := 0
	for _, sm := range m {
		if sm.TotalTraffic > max {
			max = sm.TotalTraffic
		}
	}
	return max
}
