package stationmap

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/rmrobinson/bikeflow/services/traffic"
	"go.uber.org/zap/zaptest"
)

func testDataset() *traffic.Dataset {
	at := func(clock string) time.Time {
		t, _ := time.Parse("2006-01-02 15:04", "2024-03-01 "+clock)
		return t
	}

	return &traffic.Dataset{
		Stations: []*traffic.Station{
			{Code: "A32000", Name: "Kendall T", Location: orb.Point{-71.0865, 42.3625}},
			{Code: "B32006", Name: "Central Square", Location: orb.Point{-71.1031, 42.3655}},
			{Code: "C32094", Name: "Harvard Square", Location: orb.Point{-71.1190, 42.3734}},
		},
		Trips: []*traffic.Trip{
			{ID: "1", StartStationCode: "A32000", EndStationCode: "B32006", StartedAt: at("08:05"), EndedAt: at("08:20")},
			{ID: "2", StartStationCode: "A32000", EndStationCode: "C32094", StartedAt: at("08:10"), EndedAt: at("08:40")},
			{ID: "3", StartStationCode: "C32094", EndStationCode: "A32000", StartedAt: at("17:00"), EndedAt: at("17:30")},
		},
	}
}

func testViewport() traffic.Viewport {
	return traffic.Viewport{
		Center: orb.Point{-71.0865, 42.3625},
		Zoom:   13,
		Width:  800,
		Height: 600,
	}
}

// recordingOrchestrator serves snapshots from a real orchestrator but only records submitted events.
type recordingOrchestrator struct {
	*traffic.Orchestrator

	lock      sync.Mutex
	windows   []traffic.Window
	viewports []traffic.ViewportEventKind
	err       error
}

func newRecordingOrchestrator(t *testing.T) *recordingOrchestrator {
	return &recordingOrchestrator{
		Orchestrator: traffic.NewOrchestrator(zaptest.NewLogger(t), testDataset(), testViewport(), traffic.DefaultOptions()),
	}
}

func (ro *recordingOrchestrator) SetFilter(ctx context.Context, window traffic.Window) error {
	if err := window.Validate(); err != nil {
		return err
	}

	ro.lock.Lock()
	defer ro.lock.Unlock()
	if ro.err != nil {
		return ro.err
	}
	ro.windows = append(ro.windows, window)
	return nil
}

func (ro *recordingOrchestrator) ViewportChanged(ctx context.Context, kind traffic.ViewportEventKind, projector traffic.Projector) error {
	ro.lock.Lock()
	defer ro.lock.Unlock()
	if ro.err != nil {
		return ro.err
	}
	ro.viewports = append(ro.viewports, kind)
	return nil
}

func (ro *recordingOrchestrator) recordedWindows() []traffic.Window {
	ro.lock.Lock()
	defer ro.lock.Unlock()
	return append([]traffic.Window(nil), ro.windows...)
}
