package bluebikes

import (
	"context"
	"database/sql"
	"time"

	// Registers the sqlite3 driver used by OpenSQLite.
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rmrobinson/bikeflow/services/traffic"
	"go.uber.org/zap"
)

const (
	createTripTableQuery = `CREATE TABLE IF NOT EXISTS trip(
		ride_id TEXT PRIMARY KEY,
		start_station_id TEXT NOT NULL,
		end_station_id TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL
	);`
	selectTripsQuery = `SELECT ride_id, start_station_id, end_station_id, started_at, ended_at FROM trip;`
	insertTripQuery  = `INSERT OR IGNORE INTO trip(ride_id, start_station_id, end_station_id, started_at, ended_at) VALUES (?, ?, ?, ?, ?)`
)

// OpenSQLite opens the SQLite database at the supplied path.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return db, nil
}

// SQLTripStore keeps the trip history in a SQL database so it can be loaded without reparsing the CSV.
// Timestamps are stored as wall clock text in the store's location.
type SQLTripStore struct {
	logger   *zap.Logger
	db       *sql.DB
	location *time.Location
}

// NewSQLTripStore creates a new trip store backed by a SQL DB
func NewSQLTripStore(logger *zap.Logger, db *sql.DB, location *time.Location) *SQLTripStore {
	return &SQLTripStore{
		logger:   logger,
		db:       db,
		location: location,
	}
}

// CreateSchema creates the trip table if it does not yet exist.
func (s *SQLTripStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createTripTableQuery)
	return errors.Wrap(err, "creating trip table")
}

// SaveTrips writes the supplied trips in a single transaction and returns how many were stored.
// Trips whose ride ID is already stored are skipped and recorded in warnings as duplicates; warnings may be nil.
func (s *SQLTripStore) SaveTrips(ctx context.Context, trips []*traffic.Trip, warnings *traffic.WarningAggregator) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning transaction")
	}

	stmt, err := tx.PrepareContext(ctx, insertTripQuery)
	if err != nil {
		tx.Rollback()
		return 0, errors.Wrap(err, "preparing trip insert")
	}
	defer stmt.Close()

	saved := 0
	for _, trip := range trips {
		res, err := stmt.ExecContext(ctx,
			trip.ID,
			trip.StartStationCode,
			trip.EndStationCode,
			formatStoredTime(trip.StartedAt, s.location),
			formatStoredTime(trip.EndedAt, s.location),
		)
		if err != nil {
			s.logger.Info("unable to save trip",
				zap.String("ride_id", trip.ID),
				zap.Error(err),
			)
			tx.Rollback()
			return 0, errors.Wrapf(err, "saving trip %s", trip.ID)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return 0, errors.Wrapf(err, "saving trip %s", trip.ID)
		}
		if affected == 0 {
			if warnings != nil {
				warnings.Add(traffic.WarningDuplicateTrip, trip.ID)
			}
			continue
		}
		saved++
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing trips")
	}
	return saved, nil
}

// LoadTrips retrieves every stored trip.
func (s *SQLTripStore) LoadTrips(ctx context.Context) ([]*traffic.Trip, error) {
	rows, err := s.db.QueryContext(ctx, selectTripsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "querying trips")
	}
	defer rows.Close()

	var trips []*traffic.Trip
	for rows.Next() {
		var (
			trip      traffic.Trip
			startedAt string
			endedAt   string
		)

		err = rows.Scan(&trip.ID, &trip.StartStationCode, &trip.EndStationCode, &startedAt, &endedAt)
		if err != nil {
			return nil, errors.Wrap(err, "scanning trip")
		}

		trip.StartedAt = parseTime(startedAt).In(s.location)
		trip.EndedAt = parseTime(endedAt).In(s.location)
		trips = append(trips, &trip)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "reading trips")
	}

	s.logger.Info("loaded trips from database",
		zap.Int("count", len(trips)),
	)
	return trips, nil
}
