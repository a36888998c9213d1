package traffic

import (
	"github.com/bluele/gcache"
	"go.uber.org/zap"
)

// metricsCache memoizes the metrics of each window; the dataset is static so entries never go stale.
type metricsCache struct {
	logger   *zap.Logger
	stations []*Station
	trips    []*Trip

	cache gcache.Cache
}

func newMetricsCache(logger *zap.Logger, ds *Dataset, size int) *metricsCache {
	mc := &metricsCache{
		logger:   logger,
		stations: ds.Stations,
		trips:    ds.Trips,
	}

	if size > 0 {
		mc.cache = gcache.New(size).
			LRU().
			LoaderFunc(func(key interface{}) (interface{}, error) {
				return mc.compute(key.(Window)), nil
			}).
			Build()
	}
	return mc
}

func (mc *metricsCache) compute(window Window) Metrics {
	return Aggregate(mc.stations, FilterTrips(mc.trips, window))
}

func (mc *metricsCache) get(window Window) Metrics {
	if mc.cache == nil {
		return mc.compute(window)
	}

	val, err := mc.cache.Get(window)
	if err != nil {
		mc.logger.Debug("error reading metrics cache",
			zap.Int("window", int(window)),
			zap.Error(err),
		)
		return mc.compute(window)
	}
	return val.(Metrics)
}
