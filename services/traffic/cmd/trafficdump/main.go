package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/paulmach/orb"
	"github.com/rmrobinson/bikeflow/services/traffic"
	"github.com/rmrobinson/bikeflow/services/traffic/bluebikes"
	"go.uber.org/zap"
)

func main() {
	var (
		stationsPath = flag.String("stations", "", "Path or URL of the GBFS station information file")
		tripsPath    = flag.String("trips", "", "Path or URL of the trip history CSV or zip")
		minute       = flag.String("minute", "-1", "Minute of the day to filter by, or -1 for any time")
		timezone     = flag.String("tz", "America/New_York", "Timezone of trip timestamps")
		limit        = flag.Int("limit", 20, "Number of stations to print")
		importDB     = flag.String("import", "", "Path of a SQLite database to save the parsed trips into")
		dump         = flag.Bool("spew", false, "Dump the busiest station views")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	window, err := traffic.ParseWindow(*minute)
	if err != nil {
		logger.Fatal("invalid minute",
			zap.Error(err),
		)
	}
	location, err := time.LoadLocation(*timezone)
	if err != nil {
		logger.Fatal("invalid timezone",
			zap.Error(err),
		)
	}

	ctx := context.Background()
	dataset := bluebikes.NewDataset(logger, location, *stationsPath, *tripsPath)

	ds, err := traffic.LoadDataset(ctx, dataset, dataset)
	if err != nil {
		logger.Fatal("error loading dataset",
			zap.Error(err),
		)
	}
	traffic.CheckTrips(ds.Stations, ds.Trips).LogAll(logger)

	if len(*importDB) > 0 {
		db, err := bluebikes.OpenSQLite(*importDB)
		if err != nil {
			logger.Fatal("unable to open database",
				zap.Error(err),
			)
		}
		defer db.Close()

		store := bluebikes.NewSQLTripStore(logger, db, location)
		if err = store.CreateSchema(ctx); err != nil {
			logger.Fatal("unable to create schema",
				zap.Error(err),
			)
		}
		warnings := traffic.NewWarningAggregator()
		saved, err := store.SaveTrips(ctx, ds.Trips, warnings)
		if err != nil {
			logger.Fatal("unable to save trips",
				zap.Error(err),
			)
		}
		warnings.LogAll(logger)
		logger.Info("imported trips",
			zap.String("path", *importDB),
			zap.Int("count", saved),
			zap.Int("skipped", len(ds.Trips)-saved),
		)
	}

	opts := traffic.DefaultOptions()
	opts.CacheSize = 0
	unprojected := traffic.ProjectorFunc(func(p orb.Point) traffic.ScreenPoint {
		return traffic.ScreenPoint{X: p.Lon(), Y: p.Lat()}
	})

	orch := traffic.NewOrchestrator(logger, ds, unprojected, opts)
	sink := orch.Subscribe()
	defer sink.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go orch.Run(runCtx)

	snap := <-sink.Messages()
	if window.IsFiltered() {
		if err = orch.SetFilter(runCtx, window); err != nil {
			logger.Fatal("unable to apply filter",
				zap.Error(err),
			)
		}
		snap = <-sink.Messages()
	}

	views := snap.Views()
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].TotalTraffic > views[j].TotalTraffic
	})
	if *limit > 0 && len(views) > *limit {
		views = views[:*limit]
	}

	fmt.Printf("%s: %d of %d trips\n", snap.TimeLabel(), len(traffic.FilterTrips(ds.Trips, window)), len(ds.Trips))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tRADIUS\tFLOW\tCOLOR\tSUMMARY")
	for _, view := range views {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.1f\t%s\t%s\n",
			view.Code,
			view.Name,
			view.Radius,
			view.DepartureRatio,
			view.Color,
			view.Summary,
		)
	}
	w.Flush()

	if *dump {
		spew.Dump(views)
	}
}
