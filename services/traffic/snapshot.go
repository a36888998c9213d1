package traffic

import (
	"time"

	"github.com/google/uuid"
)

// Cause identifies the event that produced a snapshot.
type Cause int

// Snapshot causes
const (
	CauseInitial Cause = iota
	CauseFilter
	CauseViewport
)

func (c Cause) String() string {
	switch c {
	case CauseInitial:
		return "initial"
	case CauseFilter:
		return "filter"
	case CauseViewport:
		return "viewport"
	}
	return "unknown"
}

// Snapshot is the complete derived state after applying an event.
// Snapshots are never modified once published; unchanged parts are shared with the previous snapshot.
type Snapshot struct {
	ID        uuid.UUID
	Sequence  uint64
	Cause     Cause
	CreatedAt time.Time

	// ViewportEvent is only meaningful when Cause is CauseViewport.
	ViewportEvent ViewportEventKind

	Window  Window
	Metrics Metrics
	Radius  RadiusScale

	// Viewport is the zero value if positions were computed by a custom Projector.
	Viewport  Viewport
	Positions Positions

	// Transition is how long the render layer should animate marker attribute changes.
	Transition time.Duration

	stations []*Station
	palette  Palette
}

// StationView holds everything needed to draw a single station marker.
type StationView struct {
	StationMetrics

	Code           string      `json:"code"`
	Name           string      `json:"name"`
	Longitude      float64     `json:"lon"`
	Latitude       float64     `json:"lat"`
	Position       ScreenPoint `json:"position"`
	Radius         float64     `json:"radius"`
	DepartureRatio float64     `json:"departureRatio"`
	Color          string      `json:"color"`
	Summary        string      `json:"summary"`
}

// TimeLabel returns the display text of the snapshot's window.
func (s *Snapshot) TimeLabel() string {
	return s.Window.Label()
}

// Views returns the render attributes of every station in roster order.
func (s *Snapshot) Views() []StationView {
	views := make([]StationView, 0, len(s.stations))
	for _, station := range s.stations {
		views = append(views, s.view(station))
	}
	return views
}

// View returns the render attributes of a single station.
func (s *Snapshot) View(code string) (StationView, bool) {
	for _, station := range s.stations {
		if station.Code == code {
			return s.view(station), true
		}
	}
	return StationView{}, false
}

func (s *Snapshot) view(station *Station) StationView {
	sm := s.Metrics.Get(station.Code)
	ratio := DepartureRatio(sm)

	return StationView{
		StationMetrics: sm,
		Code:           station.Code,
		Name:           station.Name,
		Longitude:      station.Location.Lon(),
		Latitude:       station.Location.Lat(),
		Position:       s.Positions[station.Code],
		Radius:         s.Radius.Radius(sm.TotalTraffic),
		DepartureRatio: ratio,
		Color:          s.palette.Mix(ratio).Hex(),
		Summary:        sm.Summary(),
	}
}
