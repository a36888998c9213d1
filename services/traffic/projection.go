package traffic

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/pkg/errors"
)

const tileSize = 512

const (
	// MaxZoom is the deepest zoom level a viewport may use.
	MaxZoom = 24
	// MaxLatitude is the Web Mercator latitude limit.
	MaxLatitude = 85.05113
	// MaxLongitude is the longitude limit.
	MaxLongitude = 180
)

var (
	// ErrUnknownViewportEvent is returned if a viewport event name is not recognized.
	ErrUnknownViewportEvent = errors.New("unknown viewport event")
	// ErrInvalidViewport is returned if a viewport cannot be projected.
	ErrInvalidViewport = errors.New("invalid viewport")
)

// ViewportEventKind identifies which map interaction changed the viewport.
type ViewportEventKind int

// Viewport interactions. Every kind causes all station positions to be recomputed.
const (
	ViewportMove ViewportEventKind = iota
	ViewportZoom
	ViewportResize
	ViewportMoveEnd
)

var viewportEventNames = map[ViewportEventKind]string{
	ViewportMove:    "move",
	ViewportZoom:    "zoom",
	ViewportResize:  "resize",
	ViewportMoveEnd: "moveend",
}

func (k ViewportEventKind) String() string {
	if name, ok := viewportEventNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseViewportEventKind converts an event name such as "moveend" into its kind.
func ParseViewportEventKind(name string) (ViewportEventKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, kindName := range viewportEventNames {
		if kindName == name {
			return kind, nil
		}
	}
	return ViewportMove, errors.Wrapf(ErrUnknownViewportEvent, "name %q", name)
}

// ScreenPoint is a position in pixels relative to the top left corner of the map container.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Projector converts a geographic coordinate into a screen position for the current viewport.
type Projector interface {
	Project(p orb.Point) ScreenPoint
}

// ProjectorFunc adapts a function into a Projector.
type ProjectorFunc func(p orb.Point) ScreenPoint

// Project calls f(p).
func (f ProjectorFunc) Project(p orb.Point) ScreenPoint {
	return f(p)
}

// Positions maps a station code to its screen position.
type Positions map[string]ScreenPoint

// ProjectStations computes the screen position of every station.
func ProjectStations(stations []*Station, projector Projector) Positions {
	positions := make(Positions, len(stations))
	for _, station := range stations {
		positions[station.Code] = projector.Project(station.Location)
	}
	return positions
}

// Viewport is a Web Mercator map view using 512 pixel tiles.
type Viewport struct {
	Center orb.Point `json:"center"`
	Zoom   float64   `json:"zoom"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

// Validate returns ErrInvalidViewport if the viewport cannot be projected to finite positions.
func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return errors.Wrapf(ErrInvalidViewport, "size %dx%d", v.Width, v.Height)
	}
	if math.IsNaN(v.Zoom) || v.Zoom < 0 || v.Zoom > MaxZoom {
		return errors.Wrapf(ErrInvalidViewport, "zoom %v outside [0, %d]", v.Zoom, MaxZoom)
	}

	lon, lat := v.Center.Lon(), v.Center.Lat()
	if math.IsNaN(lon) || math.Abs(lon) > MaxLongitude {
		return errors.Wrapf(ErrInvalidViewport, "center longitude %v", lon)
	}
	if math.IsNaN(lat) || math.Abs(lat) > MaxLatitude {
		return errors.Wrapf(ErrInvalidViewport, "center latitude %v", lat)
	}
	return nil
}

// Project converts a longitude/latitude into a position within the viewport.
func (v Viewport) Project(p orb.Point) ScreenPoint {
	worldSize := v.worldSize()
	center := mercatorPixels(v.Center, worldSize)
	pt := mercatorPixels(p, worldSize)

	return ScreenPoint{
		X: pt.X - center.X + float64(v.Width)/2,
		Y: pt.Y - center.Y + float64(v.Height)/2,
	}
}

// Pan moves the viewport center by the supplied number of pixels.
func (v Viewport) Pan(dx, dy float64) Viewport {
	worldSize := v.worldSize()
	center := mercatorPixels(v.Center, worldSize)
	center.X += dx
	center.Y += dy

	circumference := 2 * math.Pi * orb.EarthRadius
	merc := orb.Point{
		(center.X/worldSize - 0.5) * circumference,
		(0.5 - center.Y/worldSize) * circumference,
	}

	v.Center = project.Mercator.ToWGS84(merc)
	return v
}

// ZoomBy changes the zoom level by delta while keeping the center. The result is clamped to [0, MaxZoom].
func (v Viewport) ZoomBy(delta float64) Viewport {
	v.Zoom = math.Min(MaxZoom, math.Max(0, v.Zoom+delta))
	return v
}

// Resize changes the dimensions of the viewport while keeping the center.
func (v Viewport) Resize(width, height int) Viewport {
	v.Width = width
	v.Height = height
	return v
}

func (v Viewport) worldSize() float64 {
	return tileSize * math.Pow(2, v.Zoom)
}

func mercatorPixels(p orb.Point, worldSize float64) ScreenPoint {
	circumference := 2 * math.Pi * orb.EarthRadius
	merc := project.WGS84.ToMercator(p)

	return ScreenPoint{
		X: (merc[0]/circumference + 0.5) * worldSize,
		Y: (0.5 - merc[1]/circumference) * worldSize,
	}
}
