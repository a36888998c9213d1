package stationmap

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"github.com/rmrobinson/bikeflow/lib/stream"
	"github.com/rmrobinson/bikeflow/services/traffic"
	"go.uber.org/zap"
)

const requestTimeout = 5 * time.Second

// Orchestrator is the part of the traffic orchestrator exposed over HTTP.
type Orchestrator interface {
	Current() *traffic.Snapshot
	Stations() []*traffic.Station
	Subscribe() *stream.Sink[*traffic.Snapshot]
	SetFilter(ctx context.Context, window traffic.Window) error
	ViewportChanged(ctx context.Context, kind traffic.ViewportEventKind, projector traffic.Projector) error
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SnapshotResponse is the JSON representation of a snapshot.
type SnapshotResponse struct {
	ID            string                `json:"id"`
	Sequence      uint64                `json:"sequence"`
	Cause         string                `json:"cause"`
	ViewportEvent string                `json:"viewportEvent,omitempty"`
	Window        int                   `json:"window"`
	TimeLabel     string                `json:"timeLabel"`
	TransitionMs  int64                 `json:"transitionMs"`
	Radius        traffic.RadiusScale   `json:"radius"`
	Viewport      traffic.Viewport      `json:"viewport"`
	Stations      []traffic.StationView `json:"stations"`
}

// NearestStationResponse is the JSON response for GET /api/stations/nearest
type NearestStationResponse struct {
	Station        traffic.StationView `json:"station"`
	DistanceMeters float64             `json:"distanceMeters"`
}

// FilterRequest is the JSON body for PUT /api/filter
type FilterRequest struct {
	Minute *int `json:"minute"`
}

// ViewportRequest is the JSON body for PUT /api/viewport
type ViewportRequest struct {
	traffic.Viewport

	Event string `json:"event"`
}

// NewSnapshotResponse converts a snapshot into its JSON representation.
func NewSnapshotResponse(snap *traffic.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		ID:           snap.ID.String(),
		Sequence:     snap.Sequence,
		Cause:        snap.Cause.String(),
		Window:       int(snap.Window),
		TimeLabel:    snap.TimeLabel(),
		TransitionMs: snap.Transition.Milliseconds(),
		Radius:       snap.Radius,
		Viewport:     snap.Viewport,
		Stations:     snap.Views(),
	}
	if snap.Cause == traffic.CauseViewport {
		resp.ViewportEvent = snap.ViewportEvent.String()
	}
	return resp
}

// API serves the current map state and accepts filter and viewport events.
type API struct {
	logger *zap.Logger
	orch   Orchestrator

	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewAPI creates a new API over the supplied orchestrator.
func NewAPI(logger *zap.Logger, orch Orchestrator, allowedOrigins []string) *API {
	api := &API{
		logger:         logger,
		orch:           orch,
		allowedOrigins: allowedOrigins,
	}
	api.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     api.checkOrigin,
	}
	return api
}

// Router returns the HTTP handler exposing every endpoint.
func (api *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: api.allowedOrigins,
		AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", api.Health)
	r.Get("/api/stations", api.GetStations)
	r.Get("/api/stations/nearest", api.GetNearestStation)
	r.Get("/api/stations/{code}", api.GetStation)
	r.Put("/api/filter", api.PutFilter)
	r.Put("/api/viewport", api.PutViewport)
	r.Get("/api/stream", api.Stream)

	return r
}

// Health handles GET /health
func (api *API) Health(w http.ResponseWriter, r *http.Request) {
	snap := api.orch.Current()
	api.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"stations":  len(api.orch.Stations()),
		"sequence":  snap.Sequence,
		"timestamp": time.Now().UTC(),
	})
}

// GetStations handles GET /api/stations
// Returns the current snapshot including every station's render attributes.
func (api *API) GetStations(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, http.StatusOK, NewSnapshotResponse(api.orch.Current()))
}

// GetStation handles GET /api/stations/{code}
func (api *API) GetStation(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	view, ok := api.orch.Current().View(code)
	if !ok {
		api.writeError(w, http.StatusNotFound, "Station not found")
		return
	}
	api.writeJSON(w, http.StatusOK, view)
}

// GetNearestStation handles GET /api/stations/nearest?lon=&lat=
func (api *API) GetNearestStation(w http.ResponseWriter, r *http.Request) {
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if errLon != nil || errLat != nil {
		api.writeError(w, http.StatusBadRequest, "lon and lat query parameters are required")
		return
	}

	station, distance := nearestStation(api.orch.Stations(), orb.Point{lon, lat})
	if station == nil {
		api.writeError(w, http.StatusNotFound, "No stations loaded")
		return
	}

	view, _ := api.orch.Current().View(station.Code)
	api.writeJSON(w, http.StatusOK, NearestStationResponse{
		Station:        view,
		DistanceMeters: distance,
	})
}

// PutFilter handles PUT /api/filter
// The change is applied asynchronously; subscribers receive the resulting snapshot.
func (api *API) PutFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Minute == nil {
		api.writeError(w, http.StatusBadRequest, "Request body must contain a minute")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err := api.orch.SetFilter(ctx, traffic.Window(*req.Minute))
	if errors.Is(err, traffic.ErrInvalidWindow) {
		api.writeError(w, http.StatusBadRequest, err.Error())
		return
	} else if err != nil {
		api.logger.Info("unable to apply filter",
			zap.Int("minute", *req.Minute),
			zap.Error(err),
		)
		api.writeError(w, http.StatusServiceUnavailable, "Failed to apply filter")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// PutViewport handles PUT /api/viewport
func (api *API) PutViewport(w http.ResponseWriter, r *http.Request) {
	var req ViewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.writeError(w, http.StatusBadRequest, "Invalid viewport")
		return
	}

	kind, err := traffic.ParseViewportEventKind(req.Event)
	if err != nil {
		api.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Viewport.Validate(); err != nil {
		api.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := api.orch.ViewportChanged(ctx, kind, req.Viewport); err != nil {
		api.logger.Info("unable to apply viewport",
			zap.String("event", kind.String()),
			zap.Error(err),
		)
		api.writeError(w, http.StatusServiceUnavailable, "Failed to apply viewport")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (api *API) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range api.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func nearestStation(stations []*traffic.Station, p orb.Point) (*traffic.Station, float64) {
	var closest *traffic.Station
	closestDistance := math.MaxFloat64

	for _, station := range stations {
		distance := geo.DistanceHaversine(p, station.Location)
		if distance < closestDistance {
			closest = station
			closestDistance = distance
		}
	}
	return closest, closestDistance
}

// writeJSON encodes the body before writing the status so an encoding failure is reported as a 500.
func (api *API) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	contents, err := json.Marshal(body)
	if err != nil {
		api.logger.Error("unable to encode response",
			zap.Int("status", status),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		contents, _ = json.Marshal(ErrorResponse{Error: "Failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(append(contents, '\n')); err != nil {
		api.logger.Debug("unable to write response",
			zap.Error(err),
		)
	}
}

func (api *API) writeError(w http.ResponseWriter, status int, msg string) {
	api.writeJSON(w, status, ErrorResponse{Error: msg})
}
