package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rmrobinson/bikeflow/services/stationmap"
	"github.com/rmrobinson/bikeflow/services/traffic"
	"github.com/rmrobinson/bikeflow/services/traffic/bluebikes"
	"go.uber.org/zap"
)

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	var (
		configFile = flag.String("config", "", "Path to a config file")
		envFile    = flag.String("env", ".env", "Path to an env file")
	)
	flag.Parse()

	cfg, err := stationmap.LoadConfig(*configFile, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to load config: %s\n", err.Error())
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Production)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	location, err := cfg.Location()
	if err != nil {
		logger.Fatal("unable to load timezone",
			zap.Error(err),
		)
	}
	opts, err := cfg.Options()
	if err != nil {
		logger.Fatal("invalid options",
			zap.Error(err),
		)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dataset := bluebikes.NewDataset(logger, location, cfg.StationsPath, cfg.TripsPath)

	var tripSource traffic.TripSource = dataset
	if cfg.TripsDB != "" {
		db, err := bluebikes.OpenSQLite(cfg.TripsDB)
		if err != nil {
			logger.Fatal("unable to open trip database",
				zap.String("path", cfg.TripsDB),
				zap.Error(err),
			)
		}
		defer db.Close()

		tripSource = bluebikes.NewSQLTripStore(logger, db, location)
	}

	ds, err := traffic.LoadDataset(ctx, dataset, tripSource)
	if err != nil {
		logger.Fatal("error loading dataset",
			zap.Error(err),
		)
	}
	traffic.CheckTrips(ds.Stations, ds.Trips).LogAll(logger)

	orch := traffic.NewOrchestrator(logger, ds, cfg.Viewport(), opts)
	go func() {
		if err := orch.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("orchestrator stopped",
				zap.Error(err),
			)
		}
	}()

	if cfg.FollowClock {
		clock := stationmap.NewClock(logger, orch, location)
		if err := clock.Start(ctx); err != nil {
			logger.Fatal("unable to start clock",
				zap.Error(err),
			)
		}
		defer clock.Stop()
	}

	api := stationmap.NewAPI(logger, orch, cfg.AllowedOrigins)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: api.Router(),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving station map",
		zap.Int("port", cfg.Port),
		zap.Int("stations", len(ds.Stations)),
		zap.Int("trips", len(ds.Trips)),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("failed to serve",
			zap.Error(err),
		)
	}
}
