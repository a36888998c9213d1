package widget

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell"
	"github.com/rivo/tview"
)

// Debug is a widget to display the most recent log lines.
type Debug struct {
	*tview.TextView

	app *tview.Application

	maxLines  int
	lines     []string
	linesLock sync.Mutex
}

// NewDebug creates a new debug widget retaining maxLines lines.
func NewDebug(app *tview.Application, maxLines int) *Debug {
	d := &Debug{
		TextView: tview.NewTextView(),
		app:      app,
		maxLines: maxLines,
	}

	d.SetTextAlign(tview.AlignLeft).
		SetTextColor(tcell.ColorBlue).
		SetBorder(true).
		SetTitle("Debug")

	return d
}

// Append adds log output to the widget, dropping the oldest lines once full.
func (d *Debug) Append(contents string) {
	d.linesLock.Lock()
	d.lines = append(d.lines, strings.Split(strings.TrimRight(contents, "\n"), "\n")...)
	if len(d.lines) > d.maxLines {
		d.lines = d.lines[len(d.lines)-d.maxLines:]
	}
	text := strings.Join(d.lines, "\n")
	d.linesLock.Unlock()

	d.app.QueueUpdateDraw(func() {
		d.SetText(text)
	})
}
