package main

import (
	"net/url"

	"github.com/rmrobinson/bikeflow/services/ui/tboard/widget"
	"go.uber.org/zap"
)

const widgetSinkScheme = "widget"

// WidgetSink implements zap.Sink by appending all messages to the debug widget.
type WidgetSink struct {
	widget *widget.Debug
}

// NewWidgetSink creates a new widget logger sink
func NewWidgetSink(widget *widget.Debug) *WidgetSink {
	return &WidgetSink{
		widget: widget,
	}
}

// Write saves the contents to the widget
func (s *WidgetSink) Write(p []byte) (n int, err error) {
	s.widget.Append(string(p))
	return len(p), nil
}

// Close is a nop
func (s *WidgetSink) Close() error { return nil }

// Sync is a nop
func (s *WidgetSink) Sync() error { return nil }

// newWidgetLogger builds a development logger whose output is shown in the debug widget instead of the terminal.
func newWidgetLogger(debug *widget.Debug) (*zap.Logger, error) {
	sink := NewWidgetSink(debug)
	err := zap.RegisterSink(widgetSinkScheme, func(*url.URL) (zap.Sink, error) {
		return sink, nil
	})
	if err != nil {
		return nil, err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{widgetSinkScheme + "://"}
	cfg.ErrorOutputPaths = []string{widgetSinkScheme + "://"}
	return cfg.Build()
}
