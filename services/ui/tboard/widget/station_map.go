package widget

import (
	"sync"

	"github.com/gdamore/tcell"
	"github.com/rivo/tview"
	"github.com/rmrobinson/bikeflow/services/traffic"
)

// Terminal cells are roughly twice as tall as they are wide.
const (
	cellWidthPx  = 8
	cellHeightPx = 16
)

// StationMap is a widget plotting station markers at their projected screen positions.
type StationMap struct {
	*tview.Box

	app *tview.Application

	views     []traffic.StationView
	viewsLock sync.Mutex
}

// NewStationMap creates a new, empty station map.
func NewStationMap(app *tview.Application) *StationMap {
	m := &StationMap{
		Box: tview.NewBox(),
		app: app,
	}

	m.SetBorder(true).
		SetTitle("Map").
		SetTitleAlign(tview.AlignLeft)
	m.SetDrawFunc(m.draw)

	return m
}

// ViewportSize returns the pixel dimensions the map can currently display.
func (m *StationMap) ViewportSize() (int, int) {
	_, _, width, height := m.GetInnerRect()
	return width * cellWidthPx, height * cellHeightPx
}

// Refresh replaces the plotted stations.
func (m *StationMap) Refresh(views []traffic.StationView) {
	m.viewsLock.Lock()
	m.views = views
	m.viewsLock.Unlock()

	m.app.QueueUpdateDraw(func() {})
}

func (m *StationMap) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	innerX, innerY, innerWidth, innerHeight := x+1, y+1, width-2, height-2

	m.viewsLock.Lock()
	defer m.viewsLock.Unlock()

	maxRadius := 0.0
	for _, view := range m.views {
		if view.Radius > maxRadius {
			maxRadius = view.Radius
		}
	}

	// Draw the quietest stations first so busy stations end up on top.
	ordered := busiest(m.views, 0)
	for i := len(ordered) - 1; i >= 0; i-- {
		view := ordered[i]
		col := int(view.Position.X) / cellWidthPx
		row := int(view.Position.Y) / cellHeightPx
		if view.Position.X < 0 || view.Position.Y < 0 || col >= innerWidth || row >= innerHeight {
			continue
		}

		style := tcell.StyleDefault.Foreground(markerColor(view.Color))
		screen.SetContent(innerX+col, innerY+row, markerGlyph(view.Radius, maxRadius), nil, style)
	}

	return innerX, innerY, innerWidth, innerHeight
}
