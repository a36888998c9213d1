package stationmap

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

// Stream handles GET /api/stream
// The connection is upgraded to a websocket which receives the current snapshot followed by every new one.
func (api *API) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := api.upgrader.Upgrade(w, r, nil)
	if err != nil {
		api.logger.Info("unable to upgrade connection",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}
	defer conn.Close()

	sink := api.orch.Subscribe()
	defer sink.Close()

	logger := api.logger.With(zap.String("channel_id", sink.ID()))
	logger.Debug("stream opened",
		zap.String("remote_addr", r.RemoteAddr),
	)

	// Clients never send anything meaningful; reading is only needed to notice the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeSnapshot(conn, NewSnapshotResponse(api.orch.Current())); err != nil {
		logger.Debug("unable to write snapshot", zap.Error(err))
		return
	}

	for {
		select {
		case <-closed:
			logger.Debug("stream closed by client")
			return
		case <-r.Context().Done():
			return
		case snap, ok := <-sink.Messages():
			if !ok {
				return
			}
			if err := writeSnapshot(conn, NewSnapshotResponse(snap)); err != nil {
				logger.Debug("unable to write snapshot", zap.Error(err))
				return
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, resp SnapshotResponse) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(resp)
}
