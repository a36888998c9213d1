package stationmap

import (
	"context"
	"testing"
	"time"

	"github.com/rmrobinson/bikeflow/services/traffic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCurrentWindow(t *testing.T) {
	boston, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name     string
		t        time.Time
		expected traffic.Window
	}{
		{"morning utc", time.Date(2024, time.March, 1, 13, 5, 30, 0, time.UTC), 485},
		{"midnight local", time.Date(2024, time.March, 1, 5, 0, 0, 0, time.UTC), 0},
		{"last minute local", time.Date(2024, time.March, 2, 4, 59, 59, 0, time.UTC), 1439},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CurrentWindow(tt.t, boston))
		})
	}
}

func TestClock(t *testing.T) {
	orch := newRecordingOrchestrator(t)
	clock := NewClock(zaptest.NewLogger(t), orch, time.UTC)
	clock.now = func() time.Time {
		return time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	}

	require.NoError(t, clock.Start(context.Background()))
	clock.Stop()

	windows := orch.recordedWindows()
	require.NotEmpty(t, windows)
	assert.Equal(t, traffic.Window(600), windows[0])
}
