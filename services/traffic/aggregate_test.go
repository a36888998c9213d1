package traffic

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	metrics := Aggregate(testStations(), testTrips())

	tests := []struct {
		code     string
		expected StationMetrics
	}{
		{"A32000", StationMetrics{Arrivals: 4, Departures: 3, TotalTraffic: 7}},
		{"B32006", StationMetrics{Arrivals: 3, Departures: 2, TotalTraffic: 5}},
		{"C32094", StationMetrics{Arrivals: 1, Departures: 3, TotalTraffic: 4}},
		{"D32011", StationMetrics{}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, metrics.Get(tt.code))
		})
	}

	assert.Len(t, metrics, 4)
	assert.Equal(t, 7, metrics.MaxTotal())
	assert.Equal(t, StationMetrics{}, metrics.Get("X99999"))
}

func TestAggregateReturnsNewMetrics(t *testing.T) {
	stations := testStations()
	trips := testTrips()

	first := Aggregate(stations, trips)
	second := Aggregate(stations, trips)
	assert.Equal(t, first, second)

	first["A32000"] = StationMetrics{}
	assert.Equal(t, 7, second.Get("A32000").TotalTraffic)
}

func randomTrips(r *rand.Rand, stations []*Station, count int) []*Trip {
	codes := []string{"UNKNOWN"}
	for _, station := range stations {
		codes = append(codes, station.Code)
	}

	var trips []*Trip
	for i := 0; i < count; i++ {
		start := r.Intn(MinutesPerDay)
		end := start + r.Intn(90)
		trip := newTrip(fmt.Sprintf("%d", i),
			codes[r.Intn(len(codes))],
			codes[r.Intn(len(codes))],
			"00:00",
			"00:00",
		)
		trip.StartedAt = trip.StartedAt.Add(minutes(start))
		trip.EndedAt = trip.EndedAt.Add(minutes(end))
		trips = append(trips, trip)
	}
	return trips
}

func TestAggregateProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	stations := testStations()
	trips := randomTrips(r, stations, 2000)

	known := map[string]bool{}
	for _, station := range stations {
		known[station.Code] = true
	}

	unfiltered := Aggregate(stations, trips)

	for _, window := range []Window{AnyTime, 0, 59, 480, 720, 1020, 1439} {
		window := window
		t.Run(window.Label(), func(t *testing.T) {
			filtered := FilterTrips(trips, window)
			metrics := Aggregate(stations, filtered)

			expectedDepartures, expectedArrivals := 0, 0
			for _, trip := range filtered {
				if known[trip.StartStationCode] {
					expectedDepartures++
				}
				if known[trip.EndStationCode] {
					expectedArrivals++
				}
			}

			departures, arrivals := 0, 0
			for code, sm := range metrics {
				assert.Equal(t, sm.Arrivals+sm.Departures, sm.TotalTraffic)
				assert.LessOrEqual(t, sm.TotalTraffic, unfiltered.Get(code).TotalTraffic)
				departures += sm.Departures
				arrivals += sm.Arrivals
			}
			assert.Equal(t, expectedDepartures, departures)
			assert.Equal(t, expectedArrivals, arrivals)
		})
	}
}
