package widget

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell"
	"github.com/rivo/tview"
	"github.com/rmrobinson/bikeflow/services/traffic"
)

const sliderWidth = 48

// TimeFilter is a widget to display the current time-of-day filter as a label and a slider.
type TimeFilter struct {
	*tview.TextView

	app *tview.Application
}

// NewTimeFilter creates a new time filter widget.
func NewTimeFilter(app *tview.Application) *TimeFilter {
	t := &TimeFilter{
		TextView: tview.NewTextView(),
		app:      app,
	}

	t.SetTextAlign(tview.AlignCenter).
		SetTextColor(tcell.ColorLime).
		SetBorder(true).
		SetTitle("Filter by time")

	return t
}

// Refresh updates the label and slider position.
func (t *TimeFilter) Refresh(window traffic.Window, tripSummary string) {
	t.app.QueueUpdateDraw(func() {
		t.SetText(window.Label() + "\n" + slider(window) + "\n" + tripSummary)
	})
}

func slider(window traffic.Window) string {
	if !window.IsFiltered() {
		return "[" + strings.Repeat("-", sliderWidth) + "]"
	}

	pos := int(window) * sliderWidth / traffic.MinutesPerDay
	return fmt.Sprintf("[%s|%s]", strings.Repeat("-", pos), strings.Repeat("-", sliderWidth-pos-1))
}
