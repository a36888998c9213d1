package traffic

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Data quality warning types
const (
	WarningUnknownStartStation = "unknown_start_station"
	WarningUnknownEndStation   = "unknown_end_station"
	WarningMissingStartTime    = "missing_start_time"
	WarningMissingEndTime      = "missing_end_time"
	WarningDuplicateStation    = "duplicate_station"
	WarningDuplicateTrip       = "duplicate_trip"
)

const maxWarningExamples = 3

type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects data quality issues so they can be reported as a single log line per issue type.
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new, empty warning aggregator.
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{
		warnings: map[string]*warningInfo{},
	}
}

// Add records a warning occurrence along with an identifier showing where it happened.
func (w *WarningAggregator) Add(warningType, exampleID string) {
	info := w.warnings[warningType]
	if info == nil {
		info = &warningInfo{
			examples: make([]string, 0, maxWarningExamples),
		}
		w.warnings[warningType] = info
	}

	info.count++
	if len(info.examples) < maxWarningExamples {
		info.examples = append(info.examples, exampleID)
	}
}

// Count returns the number of occurrences of the supplied warning type.
func (w *WarningAggregator) Count(warningType string) int {
	if info := w.warnings[warningType]; info != nil {
		return info.count
	}
	return 0
}

// Empty returns true if no warnings were recorded.
func (w *WarningAggregator) Empty() bool {
	return len(w.warnings) == 0
}

// LogAll writes one warning per recorded type.
func (w *WarningAggregator) LogAll(logger *zap.Logger) {
	var types []string
	for warningType := range w.warnings {
		types = append(types, warningType)
	}
	sort.Strings(types)

	for _, warningType := range types {
		info := w.warnings[warningType]
		logger.Warn("data quality issue",
			zap.String("type", warningType),
			zap.Int("count", info.count),
			zap.String("examples", strings.Join(info.examples, ", ")),
		)
	}
}

// CheckTrips reports trips that reference stations missing from the roster, trips with missing timestamps
// and ride IDs used by more than one trip.
// These trips are still handled by FilterTrips and Aggregate; the report exists only so the issue is visible.
func CheckTrips(stations []*Station, trips []*Trip) *WarningAggregator {
	known := make(map[string]bool, len(stations))
	for _, station := range stations {
		known[station.Code] = true
	}

	seen := make(map[string]bool, len(trips))
	w := NewWarningAggregator()
	for _, trip := range trips {
		if seen[trip.ID] {
			w.Add(WarningDuplicateTrip, trip.ID)
		}
		seen[trip.ID] = true

		if !known[trip.StartStationCode] {
			w.Add(WarningUnknownStartStation, trip.StartStationCode)
		}
		if !known[trip.EndStationCode] {
			w.Add(WarningUnknownEndStation, trip.EndStationCode)
		}
		if trip.StartedAt.IsZero() {
			w.Add(WarningMissingStartTime, trip.ID)
		}
		if trip.EndedAt.IsZero() {
			w.Add(WarningMissingEndTime, trip.ID)
		}
	}
	return w
}
