package stationmap

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rmrobinson/bikeflow/services/traffic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func readSnapshot(t *testing.T, conn *websocket.Conn) SnapshotResponse {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var resp SnapshotResponse
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func TestStream(t *testing.T) {
	logger := zaptest.NewLogger(t)
	orch := traffic.NewOrchestrator(logger, testDataset(), testViewport(), traffic.DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := orch.Subscribe()
	go orch.Run(ctx)
	select {
	case <-started.Messages():
	case <-time.After(5 * time.Second):
		require.FailNow(t, "orchestrator did not start")
	}
	started.Close()

	srv := httptest.NewServer(NewAPI(logger, orch, []string{"*"}).Router())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/stream", nil)
	require.NoError(t, err)
	defer conn.Close()

	initial := readSnapshot(t, conn)
	assert.Equal(t, "initial", initial.Cause)
	assert.Len(t, initial.Stations, 3)

	require.NoError(t, orch.SetFilter(ctx, 500))
	filtered := readSnapshot(t, conn)
	assert.Equal(t, "filter", filtered.Cause)
	assert.Equal(t, 500, filtered.Window)
	assert.Equal(t, "8:20 AM", filtered.TimeLabel)
	assert.Equal(t, int64(500), filtered.TransitionMs)

	require.NoError(t, orch.ViewportChanged(ctx, traffic.ViewportZoom, testViewport().ZoomBy(1)))
	zoomed := readSnapshot(t, conn)
	assert.Equal(t, "viewport", zoomed.Cause)
	assert.Equal(t, "zoom", zoomed.ViewportEvent)
	assert.Equal(t, int64(0), zoomed.TransitionMs)
	assert.Equal(t, 500, zoomed.Window)
}

func TestStreamRejectsOrigin(t *testing.T) {
	logger := zaptest.NewLogger(t)
	orch := traffic.NewOrchestrator(logger, testDataset(), testViewport(), traffic.DefaultOptions())

	srv := httptest.NewServer(NewAPI(logger, orch, []string{"http://localhost:5173"}).Router())
	defer srv.Close()

	header := map[string][]string{"Origin": {"http://evil.example"}}
	_, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/stream", header)
	assert.Error(t, err)
}
