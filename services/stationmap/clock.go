package stationmap

import (
	"context"
	"time"

	"github.com/rmrobinson/bikeflow/services/traffic"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const everyMinute = "* * * * *"

// FilterSetter accepts time window changes.
type FilterSetter interface {
	SetFilter(ctx context.Context, window traffic.Window) error
}

// Clock keeps the time filter set to the current minute of the day.
type Clock struct {
	logger   *zap.Logger
	setter   FilterSetter
	location *time.Location

	cron *cron.Cron
	now  func() time.Time
}

// NewClock creates a clock which follows the wall time in the supplied location.
func NewClock(logger *zap.Logger, setter FilterSetter, location *time.Location) *Clock {
	return &Clock{
		logger:   logger,
		setter:   setter,
		location: location,
		cron:     cron.New(cron.WithLocation(location)),
		now:      time.Now,
	}
}

// CurrentWindow returns the window matching the wall time of t in the supplied location.
func CurrentWindow(t time.Time, location *time.Location) traffic.Window {
	minute, _ := traffic.MinuteOfDay(t.In(location))
	return traffic.Window(minute)
}

// Start sets the filter immediately and then again at the start of every minute until Stop is called.
func (c *Clock) Start(ctx context.Context) error {
	c.tick(ctx)

	_, err := c.cron.AddFunc(everyMinute, func() {
		c.tick(ctx)
	})
	if err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the clock and waits for a running update to complete.
func (c *Clock) Stop() {
	<-c.cron.Stop().Done()
}

func (c *Clock) tick(ctx context.Context) {
	window := CurrentWindow(c.now(), c.location)

	if err := c.setter.SetFilter(ctx, window); err != nil {
		c.logger.Info("unable to follow clock",
			zap.String("window", window.Label()),
			zap.Error(err),
		)
		return
	}

	c.logger.Debug("following clock",
		zap.String("window", window.Label()),
	)
}
