package traffic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestCheckTrips(t *testing.T) {
	w := CheckTrips(testStations(), testTrips())

	assert.False(t, w.Empty())
	assert.Equal(t, 1, w.Count(WarningUnknownStartStation))
	assert.Equal(t, 1, w.Count(WarningUnknownEndStation))
	assert.Equal(t, 2, w.Count(WarningMissingStartTime))
	assert.Equal(t, 1, w.Count(WarningMissingEndTime))
	assert.Equal(t, 0, w.Count(WarningDuplicateStation))
	assert.Equal(t, 0, w.Count(WarningDuplicateTrip))

	w.LogAll(zaptest.NewLogger(t))
}

func TestCheckTripsDuplicateIDs(t *testing.T) {
	trips := []*Trip{
		newTrip("row-1", "A32000", "B32006", "07:10", "07:25"),
		newTrip("row-1", "B32006", "A32000", "08:10", "08:25"),
		newTrip("row-1", "C32094", "A32000", "09:10", "09:25"),
		newTrip("row-2", "C32094", "A32000", "09:10", "09:25"),
	}

	w := CheckTrips(testStations(), trips)
	assert.Equal(t, 2, w.Count(WarningDuplicateTrip))
	assert.Equal(t, []string{"row-1", "row-1"}, w.warnings[WarningDuplicateTrip].examples)
}

func TestWarningAggregatorExamples(t *testing.T) {
	w := NewWarningAggregator()
	assert.True(t, w.Empty())

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		w.Add(WarningUnknownEndStation, id)
	}

	assert.Equal(t, 5, w.Count(WarningUnknownEndStation))
	assert.Equal(t, []string{"a", "b", "c"}, w.warnings[WarningUnknownEndStation].examples)
}
