package stream

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source represents a message source that will be broadcast to its sinks.
type Source[T any] struct {
	logger *zap.Logger

	sinks     map[string]*Sink[T]
	sinksLock sync.Mutex
}

// NewSource creates a new message source.
func NewSource[T any](logger *zap.Logger) *Source[T] {
	return &Source[T]{
		logger: logger,
		sinks:  map[string]*Sink[T]{},
	}
}

// NewSink creates a message sink for this source.
func (s *Source[T]) NewSink() *Sink[T] {
	sink := &Sink[T]{
		id:      uuid.New().String(),
		channel: make(chan T, sinkBufferSize),
		source:  s,
	}

	s.sinksLock.Lock()
	s.sinks[sink.id] = sink
	s.sinksLock.Unlock()

	s.logger.Debug("added watcher",
		zap.String("channel_id", sink.id))
	return sink
}

// SinkCount returns the number of currently attached sinks.
func (s *Source[T]) SinkCount() int {
	s.sinksLock.Lock()
	defer s.sinksLock.Unlock()

	return len(s.sinks)
}

// SendMessage sends a message to all created sinks.
// A sink whose buffer is full has its oldest pending message discarded so the newest one is always delivered.
func (s *Source[T]) SendMessage(msg T) {
	s.sinksLock.Lock()

	for _, sink := range s.sinks {
		select {
		case sink.channel <- msg:
			continue
		default:
		}

		s.logger.Debug("channel blocked, dropping oldest message",
			zap.String("channel_id", sink.id),
		)

		select {
		case <-sink.channel:
		default:
		}
		select {
		case sink.channel <- msg:
		default:
			s.logger.Debug("channel still blocked",
				zap.String("channel_id", sink.id),
			)
		}
	}

	s.sinksLock.Unlock()
}

func (s *Source[T]) removeSink(sink *Sink[T]) {
	s.sinksLock.Lock()
	delete(s.sinks, sink.id)
	s.sinksLock.Unlock()
}
