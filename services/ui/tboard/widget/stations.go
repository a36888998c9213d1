package widget

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell"
	"github.com/rivo/tview"
	"github.com/rmrobinson/bikeflow/services/traffic"
)

var stationColumns = []string{"", "Code", "Name", "Traffic", "Flow", "Radius", "Position"}

// Stations is a widget listing the busiest stations along with their marker attributes.
type Stations struct {
	*tview.Table

	app *tview.Application

	rowCount int
}

// NewStations creates a new station table showing at most rowCount stations.
// It will not show any data until Refresh() is called to display the data.
func NewStations(app *tview.Application, rowCount int) *Stations {
	s := &Stations{
		Table:    tview.NewTable(),
		app:      app,
		rowCount: rowCount,
	}

	s.SetBorders(false).
		SetFixed(1, 0).
		SetSelectable(false, false).
		SetBorder(true).
		SetTitle("Stations").
		SetTitleAlign(tview.AlignLeft)

	return s
}

// Refresh causes the station data to be updated.
func (s *Stations) Refresh(views []traffic.StationView) {
	rows := busiest(views, s.rowCount)

	s.app.QueueUpdateDraw(func() {
		s.Clear()

		for col, title := range stationColumns {
			s.SetCell(0, col, tview.NewTableCell(title).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
		}

		maxRadius := 0.0
		for _, view := range rows {
			if view.Radius > maxRadius {
				maxRadius = view.Radius
			}
		}

		for idx, view := range rows {
			row := idx + 1
			s.SetCell(row, 0, tview.NewTableCell(string(markerGlyph(view.Radius, maxRadius))).
				SetTextColor(markerColor(view.Color)))
			s.SetCell(row, 1, tview.NewTableCell(view.Code))
			s.SetCell(row, 2, tview.NewTableCell(view.Name).SetExpansion(1))
			s.SetCell(row, 3, tview.NewTableCell(view.Summary))
			s.SetCell(row, 4, tview.NewTableCell(flowArrow(view.DepartureRatio)).
				SetTextColor(markerColor(view.Color)).
				SetAlign(tview.AlignCenter))
			s.SetCell(row, 5, tview.NewTableCell(fmt.Sprintf("%.1f", view.Radius)).
				SetAlign(tview.AlignRight))
			s.SetCell(row, 6, tview.NewTableCell(fmt.Sprintf("%.0f,%.0f", view.Position.X, view.Position.Y)).
				SetAlign(tview.AlignRight))
		}
	})
}

func busiest(views []traffic.StationView, count int) []traffic.StationView {
	sorted := append([]traffic.StationView(nil), views...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalTraffic > sorted[j].TotalTraffic
	})

	if count > 0 && len(sorted) > count {
		sorted = sorted[:count]
	}
	return sorted
}
