package traffic

import (
	"time"

	"github.com/paulmach/orb"
)

func at(clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2024-03-01 "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func newTrip(id, start, end, startedAt, endedAt string) *Trip {
	trip := &Trip{
		ID:               id,
		StartStationCode: start,
		EndStationCode:   end,
	}
	if startedAt != "" {
		trip.StartedAt = at(startedAt)
	}
	if endedAt != "" {
		trip.EndedAt = at(endedAt)
	}
	return trip
}

func testStations() []*Station {
	return []*Station{
		{Code: "A32000", Name: "Kendall T", Location: orb.Point{-71.0865, 42.3625}},
		{Code: "B32006", Name: "Central Square", Location: orb.Point{-71.1031, 42.3655}},
		{Code: "C32094", Name: "Harvard Square", Location: orb.Point{-71.1190, 42.3734}},
		{Code: "D32011", Name: "Empty Dock", Location: orb.Point{-71.0700, 42.3500}},
	}
}

func testTrips() []*Trip {
	return []*Trip{
		newTrip("1", "A32000", "B32006", "07:10", "07:25"),
		newTrip("2", "A32000", "C32094", "08:00", "08:30"),
		newTrip("3", "B32006", "A32000", "08:45", "09:05"),
		newTrip("4", "C32094", "A32000", "12:00", "12:20"),
		newTrip("5", "A32000", "A32000", "17:30", "17:50"),
		newTrip("6", "X99999", "A32000", "17:40", "18:00"),
		newTrip("7", "B32006", "Y88888", "23:50", "00:10"),
		newTrip("8", "C32094", "B32006", "", "09:00"),
		newTrip("9", "C32094", "B32006", "", ""),
	}
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
