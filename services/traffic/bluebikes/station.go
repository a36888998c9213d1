package bluebikes

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/rmrobinson/bikeflow/services/traffic"
)

const (
	warningMissingShortName = "missing_short_name"
)

var (
	// ErrInvalidCoordinate is returned if a station longitude or latitude is not a number.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// Coordinate is a longitude or latitude which may be encoded as a JSON number or a numeric string.
type Coordinate float64

// UnmarshalJSON accepts 42.36 as well as "42.36".
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	if len(raw) < 1 || raw == "null" {
		return errors.Wrap(ErrInvalidCoordinate, "empty value")
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errors.Wrapf(ErrInvalidCoordinate, "parsing %q", raw)
	}

	*c = Coordinate(val)
	return nil
}

// StationRecord is a single station from the GBFS station information feed.
type StationRecord struct {
	StationID string     `json:"station_id"`
	ShortName string     `json:"short_name"`
	Name      string     `json:"name"`
	Lon       Coordinate `json:"lon"`
	Lat       Coordinate `json:"lat"`
	Capacity  int        `json:"capacity"`
}

type stationInformation struct {
	Data struct {
		Stations []*StationRecord `json:"stations"`
	} `json:"data"`
}

// ParseStations reads a GBFS station information document into the station roster.
// The short name is the station code; stations without one are skipped and
// only the first station using a given code is kept. Skipped stations are recorded in warnings.
func ParseStations(contents io.Reader, warnings *traffic.WarningAggregator) ([]*traffic.Station, error) {
	var info stationInformation
	if err := json.NewDecoder(contents).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "decoding station information")
	}

	seen := map[string]bool{}
	var stations []*traffic.Station

	for _, record := range info.Data.Stations {
		code := strings.TrimSpace(record.ShortName)
		if code == "" {
			warnings.Add(warningMissingShortName, record.StationID)
			continue
		}
		if seen[code] {
			warnings.Add(traffic.WarningDuplicateStation, code)
			continue
		}
		seen[code] = true

		stations = append(stations, &traffic.Station{
			Code:     code,
			Name:     record.Name,
			Location: orb.Point{float64(record.Lon), float64(record.Lat)},
		})
	}
	return stations, nil
}
