package bluebikes

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/rmrobinson/bikeflow/services/traffic"
)

// TripRecord is a single row of the Bluebikes trip history CSV.
type TripRecord struct {
	RideID         string  `csv:"ride_id"`
	RideableType   string  `csv:"rideable_type"`
	StartedAt      CSVTime `csv:"started_at"`
	EndedAt        CSVTime `csv:"ended_at"`
	StartStationID string  `csv:"start_station_id"`
	EndStationID   string  `csv:"end_station_id"`
	MemberCasual   string  `csv:"member_casual"`
}

// Trip converts the record into a pipeline trip with timestamps in the supplied location.
func (r *TripRecord) Trip(loc *time.Location) *traffic.Trip {
	return &traffic.Trip{
		ID:               strings.TrimSpace(r.RideID),
		StartStationCode: strings.TrimSpace(r.StartStationID),
		EndStationCode:   strings.TrimSpace(r.EndStationID),
		StartedAt:        r.StartedAt.In(loc),
		EndedAt:          r.EndedAt.In(loc),
	}
}

const defaultTripIDPrefix = "row"

// ParseTrips reads a trip history CSV. Rows may have fewer or more fields than the header.
// Rows without a ride ID are given one based on their position in the file, e.g. "row-3".
func ParseTrips(contents io.Reader, loc *time.Location) ([]*traffic.Trip, error) {
	return parseTrips(contents, loc, defaultTripIDPrefix)
}

func parseTrips(contents io.Reader, loc *time.Location, idPrefix string) ([]*traffic.Trip, error) {
	var records []*TripRecord
	if err := gocsv.UnmarshalCSV(tripCSVReader(contents), &records); err != nil {
		return nil, errors.Wrap(err, "unmarshalling trip csv")
	}

	trips := make([]*traffic.Trip, 0, len(records))
	for idx, record := range records {
		trip := record.Trip(loc)
		if trip.ID == "" {
			trip.ID = fmt.Sprintf("%s-%d", idPrefix, idx+1)
		}
		trips = append(trips, trip)
	}
	return trips, nil
}
