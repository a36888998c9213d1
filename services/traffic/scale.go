package traffic

import "math"

// Range is a closed pixel interval.
type Range struct {
	Min float64 `mapstructure:"min" json:"min" validate:"gte=0"`
	Max float64 `mapstructure:"max" json:"max" validate:"gtefield=Min"`
}

var (
	// UnfilteredRadiusRange is used to size markers when no time filter is applied.
	UnfilteredRadiusRange = Range{Min: 0, Max: 25}
	// FilteredRadiusRange is used to size markers when a time filter is applied.
	FilteredRadiusRange = Range{Min: 3, Max: 50}
)

// Departure ratio buckets
const (
	RatioArrivals   = 0.0
	RatioBalanced   = 0.5
	RatioDepartures = 1.0
)

// RadiusScale maps total traffic to a marker radius using a square root scale
// from [0, DomainMax] onto Range.
type RadiusScale struct {
	DomainMax float64 `json:"domainMax"`
	Range     Range   `json:"range"`
}

// NewRadiusScale builds the radius scale for the supplied traffic maximum and filter state.
func NewRadiusScale(maxTotal int, filtered bool, unfiltered, filteredRange Range) RadiusScale {
	r := unfiltered
	if filtered {
		r = filteredRange
	}
	return RadiusScale{
		DomainMax: float64(maxTotal),
		Range:     r,
	}
}

// Radius returns the marker radius for the supplied total traffic.
// With an empty domain every value maps to the middle of the range.
func (s RadiusScale) Radius(total int) float64 {
	if s.DomainMax <= 0 {
		return (s.Range.Min + s.Range.Max) / 2
	}

	t := math.Sqrt(math.Max(float64(total), 0)) / math.Sqrt(s.DomainMax)
	return s.Range.Min + t*(s.Range.Max-s.Range.Min)
}

// DepartureRatio quantizes the share of departures into one of three buckets:
// below 1/3 maps to RatioArrivals, below 2/3 to RatioBalanced, and the rest to RatioDepartures.
// A station without traffic is balanced.
func DepartureRatio(m StationMetrics) float64 {
	if m.TotalTraffic == 0 {
		return RatioBalanced
	}

	share := float64(m.Departures) / float64(m.TotalTraffic)
	switch {
	case share < 1.0/3.0:
		return RatioArrivals
	case share < 2.0/3.0:
		return RatioBalanced
	default:
		return RatioDepartures
	}
}
