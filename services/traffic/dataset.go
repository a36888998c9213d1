package traffic

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// StationSource provides the station roster.
type StationSource interface {
	LoadStations(ctx context.Context) ([]*Station, error)
}

// TripSource provides the trip log.
type TripSource interface {
	LoadTrips(ctx context.Context) ([]*Trip, error)
}

// Dataset is the static input of the pipeline; it is loaded once and never modified.
type Dataset struct {
	Stations []*Station
	Trips    []*Trip
}

// LoadDataset loads the roster and the trip log concurrently and returns once both have completed.
// If either load fails the other is cancelled and the error is returned.
func LoadDataset(ctx context.Context, stationSource StationSource, tripSource TripSource) (*Dataset, error) {
	ds := &Dataset{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stations, err := stationSource.LoadStations(gctx)
		if err != nil {
			return errors.Wrap(err, "loading stations")
		}
		ds.Stations = stations
		return nil
	})
	g.Go(func() error {
		trips, err := tripSource.LoadTrips(gctx)
		if err != nil {
			return errors.Wrap(err, "loading trips")
		}
		ds.Trips = trips
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}
