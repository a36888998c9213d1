package traffic

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// DefaultPalette colors departures steel blue and arrivals dark orange.
var DefaultPalette = Palette{
	Departures: colorful.Color{R: 70.0 / 255.0, G: 130.0 / 255.0, B: 180.0 / 255.0},
	Arrivals:   colorful.Color{R: 1.0, G: 140.0 / 255.0, B: 0},
}

// Palette holds the two colors that are mixed to show the traffic direction of a station.
type Palette struct {
	Departures colorful.Color
	Arrivals   colorful.Color
}

// NewPalette creates a palette from hex color strings such as "#4682b4".
func NewPalette(departures, arrivals string) (Palette, error) {
	dep, err := colorful.Hex(departures)
	if err != nil {
		return Palette{}, errors.Wrapf(err, "parsing departure color %q", departures)
	}
	arr, err := colorful.Hex(arrivals)
	if err != nil {
		return Palette{}, errors.Wrapf(err, "parsing arrival color %q", arrivals)
	}

	return Palette{
		Departures: dep,
		Arrivals:   arr,
	}, nil
}

// Mix blends the arrival and departure colors; a ratio of 1 is pure departures and 0 pure arrivals.
func (p Palette) Mix(ratio float64) colorful.Color {
	return p.Arrivals.BlendLab(p.Departures, ratio).Clamped()
}
