package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell"
	"github.com/paulmach/orb"
	"github.com/rivo/tview"
	"github.com/rmrobinson/bikeflow/services/traffic"
	"github.com/rmrobinson/bikeflow/services/traffic/bluebikes"
	"github.com/rmrobinson/bikeflow/services/ui/tboard/widget"
	"go.uber.org/zap"
)

const (
	filterStep  = 15
	panFraction = 0.1
	zoomStep    = 0.5
)

type controller struct {
	logger *zap.Logger
	ctx    context.Context
	orch   *traffic.Orchestrator
}

func (c *controller) viewport() traffic.Viewport {
	return c.orch.Current().Viewport
}

func (c *controller) setViewport(kind traffic.ViewportEventKind, vp traffic.Viewport) {
	if err := c.orch.ViewportChanged(c.ctx, kind, vp); err != nil {
		c.logger.Info("unable to change viewport",
			zap.String("event", kind.String()),
			zap.Error(err),
		)
	}
}

func (c *controller) pan(dxFraction, dyFraction float64) {
	vp := c.viewport()
	vp = vp.Pan(dxFraction*float64(vp.Width), dyFraction*float64(vp.Height))

	c.setViewport(traffic.ViewportMove, vp)
	c.setViewport(traffic.ViewportMoveEnd, vp)
}

func (c *controller) zoom(delta float64) {
	c.setViewport(traffic.ViewportZoom, c.viewport().ZoomBy(delta))
}

func (c *controller) resize(width, height int) {
	vp := c.viewport()
	if width <= 0 || height <= 0 || (width == vp.Width && height == vp.Height) {
		return
	}
	c.setViewport(traffic.ViewportResize, vp.Resize(width, height))
}

func (c *controller) step(delta int) {
	c.setFilter(widget.StepWindow(c.orch.Current().Window, delta))
}

func (c *controller) setFilter(window traffic.Window) {
	if err := c.orch.SetFilter(c.ctx, window); err != nil {
		c.logger.Info("unable to set filter",
			zap.Int("window", int(window)),
			zap.Error(err),
		)
	}
}

func (c *controller) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyLeft:
		c.step(-filterStep)
		return nil
	case tcell.KeyRight:
		c.step(filterStep)
		return nil
	case tcell.KeyRune:
	default:
		return event
	}

	switch event.Rune() {
	case 'a':
		c.setFilter(traffic.AnyTime)
	case 'h':
		c.pan(-panFraction, 0)
	case 'l':
		c.pan(panFraction, 0)
	case 'k':
		c.pan(0, -panFraction)
	case 'j':
		c.pan(0, panFraction)
	case '+', '=':
		c.zoom(zoomStep)
	case '-':
		c.zoom(-zoomStep)
	default:
		return event
	}
	return nil
}

func tripSummary(snap *traffic.Snapshot) string {
	departures, arrivals := 0, 0
	for _, sm := range snap.Metrics {
		departures += sm.Departures
		arrivals += sm.Arrivals
	}
	return fmt.Sprintf("%d departures, %d arrivals", departures, arrivals)
}

func main() {
	var (
		stationsPath = flag.String("stations", "", "Path or URL of the GBFS station information file")
		tripsPath    = flag.String("trips", "", "Path or URL of the trip history CSV or zip")
		timezone     = flag.String("tz", "America/New_York", "Timezone of trip timestamps")
		centerLon    = flag.Float64("lon", -71.09415, "Initial map center longitude")
		centerLat    = flag.Float64("lat", 42.36027, "Initial map center latitude")
		zoom         = flag.Float64("zoom", 12, "Initial map zoom")
	)
	flag.Parse()

	app := tview.NewApplication()

	debugView := widget.NewDebug(app, 200)
	logger, err := newWidgetLogger(debugView)
	if err != nil {
		panic(err)
	}

	location, err := time.LoadLocation(*timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid timezone: %s\n", err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dataset := bluebikes.NewDataset(logger, location, *stationsPath, *tripsPath)
	ds, err := traffic.LoadDataset(ctx, dataset, dataset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading dataset: %s\n", err.Error())
		os.Exit(1)
	}
	traffic.CheckTrips(ds.Stations, ds.Trips).LogAll(logger)

	stationMap := widget.NewStationMap(app)
	stationsView := widget.NewStations(app, 30)
	filterView := widget.NewTimeFilter(app)

	initial := traffic.Viewport{
		Center: orb.Point{*centerLon, *centerLat},
		Zoom:   *zoom,
		Width:  640,
		Height: 640,
	}
	orch := traffic.NewOrchestrator(logger, ds, initial, traffic.DefaultOptions())

	sink := orch.Subscribe()
	defer sink.Close()
	go func() {
		for snap := range sink.Messages() {
			views := snap.Views()
			stationMap.Refresh(views)
			stationsView.Refresh(views)
			filterView.Refresh(snap.Window, tripSummary(snap))
		}
	}()
	go orch.Run(ctx)

	c := &controller{
		logger: logger,
		ctx:    ctx,
		orch:   orch,
	}
	app.SetInputCapture(c.handleKey)
	app.SetAfterDrawFunc(func(screen tcell.Screen) {
		width, height := stationMap.ViewportSize()
		go c.resize(width, height)
	})

	layout := tview.NewFlex().
		AddItem(stationMap, 0, 2, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(filterView, 5, 1, false).
			AddItem(stationsView, 0, 2, true).
			AddItem(debugView, 0, 1, false), 0, 3, true)
	if err := app.SetRoot(layout, true).SetFocus(layout).Run(); err != nil {
		panic(err)
	}
}
