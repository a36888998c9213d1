package traffic

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rmrobinson/bikeflow/lib/stream"
	"go.uber.org/zap"
)

const (
	// DefaultFilterTransition is the animation duration attached to filter changes.
	DefaultFilterTransition = 500 * time.Millisecond

	// DefaultCacheSize holds the metrics of every possible window.
	DefaultCacheSize = MinutesPerDay + 1

	eventQueueSize = 32
)

var (
	// ErrNotRunning is returned if an event is submitted after the orchestrator has stopped.
	ErrNotRunning = errors.New("orchestrator not running")
)

// Options tune how the orchestrator derives visual encodings.
type Options struct {
	UnfilteredRadius Range
	FilteredRadius   Range

	// FixedDomain keeps the radius domain at the unfiltered maximum instead of the current one.
	FixedDomain bool

	FilterTransition time.Duration
	Palette          Palette
	CacheSize        int
}

// DefaultOptions returns the standard radius ranges, palette and transition.
func DefaultOptions() Options {
	return Options{
		UnfilteredRadius: UnfilteredRadiusRange,
		FilteredRadius:   FilteredRadiusRange,
		FilterTransition: DefaultFilterTransition,
		Palette:          DefaultPalette,
		CacheSize:        DefaultCacheSize,
	}
}

type viewportEvent struct {
	kind      ViewportEventKind
	projector Projector
}

type event struct {
	window   *Window
	viewport *viewportEvent
}

// Orchestrator owns the derived state of the map. Filter and viewport events are applied one at a time
// by Run, each producing a new Snapshot which is published to all subscribers.
type Orchestrator struct {
	logger *zap.Logger
	opts   Options

	stations []*Station
	cache    *metricsCache
	source   *stream.Source[*Snapshot]

	unfilteredMax int

	events chan event
	done   chan struct{}

	current     *Snapshot
	currentLock sync.RWMutex
}

// NewOrchestrator creates an orchestrator over a fully loaded dataset.
// The initial snapshot is unfiltered with positions computed by the supplied projector.
func NewOrchestrator(logger *zap.Logger, ds *Dataset, projector Projector, opts Options) *Orchestrator {
	o := &Orchestrator{
		logger:   logger,
		opts:     opts,
		stations: ds.Stations,
		cache:    newMetricsCache(logger, ds, opts.CacheSize),
		source:   stream.NewSource[*Snapshot](logger),
		events:   make(chan event, eventQueueSize),
		done:     make(chan struct{}),
	}

	metrics := o.cache.get(AnyTime)
	o.unfilteredMax = metrics.MaxTotal()

	initial := &Snapshot{
		ID:         uuid.New(),
		Cause:      CauseInitial,
		CreatedAt:  time.Now(),
		Window:     AnyTime,
		Metrics:    metrics,
		Radius:     o.radiusScale(metrics, AnyTime),
		Positions:  ProjectStations(o.stations, projector),
		Transition: 0,
		stations:   o.stations,
		palette:    opts.Palette,
	}
	if vp, ok := projector.(Viewport); ok {
		initial.Viewport = vp
	}

	o.current = initial
	return o
}

// Subscribe returns a sink which receives every snapshot published after this call.
func (o *Orchestrator) Subscribe() *stream.Sink[*Snapshot] {
	return o.source.NewSink()
}

// Current returns the most recent snapshot.
func (o *Orchestrator) Current() *Snapshot {
	o.currentLock.RLock()
	defer o.currentLock.RUnlock()

	return o.current
}

// Stations returns the station roster.
func (o *Orchestrator) Stations() []*Station {
	return o.stations
}

// SetFilter queues a change of the time window.
func (o *Orchestrator) SetFilter(ctx context.Context, window Window) error {
	if err := window.Validate(); err != nil {
		return err
	}
	return o.submit(ctx, event{window: &window})
}

// ViewportChanged queues a viewport change; projector computes positions for the new viewport.
// Viewport projectors are validated first so positions are always finite.
func (o *Orchestrator) ViewportChanged(ctx context.Context, kind ViewportEventKind, projector Projector) error {
	if projector == nil {
		return errors.New("nil projector")
	}
	if vp, ok := projector.(Viewport); ok {
		if err := vp.Validate(); err != nil {
			return err
		}
	}
	return o.submit(ctx, event{viewport: &viewportEvent{kind: kind, projector: projector}})
}

func (o *Orchestrator) submit(ctx context.Context, ev event) error {
	select {
	case <-o.done:
		return ErrNotRunning
	default:
	}

	select {
	case o.events <- ev:
		return nil
	case <-o.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run publishes the current snapshot and then applies queued events until the context is cancelled.
// Run must only be called once; events submitted after it returns fail with ErrNotRunning.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer close(o.done)

	o.source.SendMessage(o.Current())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-o.events:
			prev := o.Current()

			var next *Snapshot
			if ev.window != nil {
				next = o.applyFilter(prev, *ev.window)
			} else {
				next = o.applyViewport(prev, ev.viewport.kind, ev.viewport.projector)
			}

			o.currentLock.Lock()
			o.current = next
			o.currentLock.Unlock()

			o.source.SendMessage(next)
		}
	}
}

func (o *Orchestrator) applyFilter(prev *Snapshot, window Window) *Snapshot {
	metrics := o.cache.get(window)

	next := o.derive(prev, CauseFilter)
	next.Window = window
	next.Metrics = metrics
	next.Radius = o.radiusScale(metrics, window)
	next.Transition = o.opts.FilterTransition

	o.logger.Debug("filter applied",
		zap.Uint64("sequence", next.Sequence),
		zap.String("window", window.Label()),
		zap.Int("max_traffic", metrics.MaxTotal()),
	)
	return next
}

func (o *Orchestrator) applyViewport(prev *Snapshot, kind ViewportEventKind, projector Projector) *Snapshot {
	next := o.derive(prev, CauseViewport)
	next.ViewportEvent = kind
	next.Positions = ProjectStations(o.stations, projector)
	next.Transition = 0

	next.Viewport = Viewport{}
	if vp, ok := projector.(Viewport); ok {
		next.Viewport = vp
	}
	return next
}

func (o *Orchestrator) derive(prev *Snapshot, cause Cause) *Snapshot {
	next := *prev
	next.ID = uuid.New()
	next.Sequence = prev.Sequence + 1
	next.Cause = cause
	next.CreatedAt = time.Now()
	return &next
}

func (o *Orchestrator) radiusScale(metrics Metrics, window Window) RadiusScale {
	max := metrics.MaxTotal()
	if o.opts.FixedDomain {
		max = o.unfilteredMax
	}
	return NewRadiusScale(max, window.IsFiltered(), o.opts.UnfilteredRadius, o.opts.FilteredRadius)
}
