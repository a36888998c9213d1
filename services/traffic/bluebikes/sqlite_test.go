package bluebikes

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rmrobinson/bikeflow/services/traffic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSQLTripStore(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "trips.db"))
	require.NoError(t, err)
	defer db.Close()

	est := time.FixedZone("EST", -5*60*60)
	store := NewSQLTripStore(zaptest.NewLogger(t), db, est)
	ctx := context.Background()

	require.NoError(t, store.CreateSchema(ctx))
	require.NoError(t, store.CreateSchema(ctx))

	trips := []*traffic.Trip{
		{
			ID:               "r1",
			StartStationCode: "A32000",
			EndStationCode:   "B32006",
			StartedAt:        time.Date(2024, time.March, 1, 8, 5, 0, 0, est),
			EndedAt:          time.Date(2024, time.March, 1, 13, 20, 0, 0, time.UTC),
		},
		{
			ID:               "r2",
			StartStationCode: "B32006",
			EndStationCode:   "X99999",
		},
	}
	saved, err := store.SaveTrips(ctx, trips, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	loaded, err := store.LoadTrips(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	byID := map[string]*traffic.Trip{}
	for _, trip := range loaded {
		byID[trip.ID] = trip
	}

	assert.True(t, trips[0].StartedAt.Equal(byID["r1"].StartedAt))
	assert.True(t, trips[0].EndedAt.Equal(byID["r1"].EndedAt))
	end, _ := traffic.MinuteOfDay(byID["r1"].EndedAt)
	assert.Equal(t, 500, end)

	assert.Equal(t, "X99999", byID["r2"].EndStationCode)
	assert.True(t, byID["r2"].StartedAt.IsZero())
	assert.True(t, byID["r2"].EndedAt.IsZero())
}

func TestSQLTripStoreKeepsDuplicateRideIDs(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "trips.db"))
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLTripStore(zaptest.NewLogger(t), db, time.UTC)
	ctx := context.Background()
	require.NoError(t, store.CreateSchema(ctx))

	first := []*traffic.Trip{
		{ID: "row-1", StartStationCode: "A32000", EndStationCode: "B32006"},
		{ID: "row-2", StartStationCode: "B32006", EndStationCode: "C32094"},
	}
	second := []*traffic.Trip{
		{ID: "row-1", StartStationCode: "C32094", EndStationCode: "A32000"},
		{ID: "r9", StartStationCode: "A32000", EndStationCode: "A32000"},
	}

	warnings := traffic.NewWarningAggregator()
	saved, err := store.SaveTrips(ctx, first, warnings)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	assert.True(t, warnings.Empty())

	saved, err = store.SaveTrips(ctx, second, warnings)
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	assert.Equal(t, 1, warnings.Count(traffic.WarningDuplicateTrip))

	loaded, err := store.LoadTrips(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	for _, trip := range loaded {
		if trip.ID == "row-1" {
			assert.Equal(t, "A32000", trip.StartStationCode)
		}
	}
}
