package widget

import (
	"github.com/gdamore/tcell"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rmrobinson/bikeflow/services/traffic"
)

const (
	windowStep = 15
)

// StepWindow moves the time filter by delta minutes.
// Stepping back from midnight turns the filter off and stepping forward from any time starts at midnight.
func StepWindow(w traffic.Window, delta int) traffic.Window {
	if !w.IsFiltered() {
		if delta > 0 {
			return 0
		}
		return traffic.AnyTime
	}

	next := int(w) + delta
	if next < 0 {
		return traffic.AnyTime
	}
	if next >= traffic.MinutesPerDay {
		return traffic.MinutesPerDay - 1
	}
	return traffic.Window(next)
}

// markerGlyph picks a symbol whose visual weight follows the marker radius.
func markerGlyph(radius, maxRadius float64) rune {
	if maxRadius <= 0 || radius <= 0 {
		return '·'
	}

	switch share := radius / maxRadius; {
	case share < 0.25:
		return '·'
	case share < 0.5:
		return '∙'
	case share < 0.75:
		return '•'
	default:
		return '●'
	}
}

// flowArrow summarizes the departure ratio bucket.
func flowArrow(ratio float64) string {
	switch ratio {
	case traffic.RatioDepartures:
		return "↑"
	case traffic.RatioArrivals:
		return "↓"
	}
	return "↕"
}

func markerColor(hex string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorWhite
	}

	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
