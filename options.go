package mdadm

import (
	"log/slog"

	"github.com/hupe1980/mdadm/cache"
	"github.com/hupe1980/mdadm/resource"
)

type options struct {
	cache            *cache.BlockCache
	cacheCapacity    int
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
}

// Option configures a Controller.
type Option func(*options)

// WithCache puts an existing block cache in front of the device.
// The cache stays owned by the caller and is not destroyed by Close.
// It fronts one controller at a time: New fails with cache.ErrAlreadyAttached
// while another open controller holds it, and Close releases it.
//
// A nil or disabled cache means every block fetch goes to the device.
func WithCache(c *cache.BlockCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithCacheCapacity makes New create a block cache with the given number of
// slots. The controller owns that cache and destroys it on Close.
// Ignored when WithCache is also given.
func WithCacheCapacity(capacity int) Option {
	return func(o *options) {
		o.cacheCapacity = capacity
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &mdadm.BasicMetricsCollector{}
//	ctrl, _ := mdadm.New(dev, mdadm.WithMetricsCollector(metrics))
//	// ... use ctrl ...
//	stats := metrics.GetStats()
//	fmt.Printf("Reads: %d, Avg latency: %dns\n", stats.ReadCount, stats.ReadAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := mdadm.NewJSONLogger(slog.LevelInfo)
//	ctrl, _ := mdadm.New(dev, mdadm.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController charges the memory of a cache created through
// WithCacheCapacity against rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
