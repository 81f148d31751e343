package vecdist

import (
	"runtime"

	"github.com/hupe1980/vecdist/distance"
	"github.com/hupe1980/vecdist/resource"
)

type options struct {
	metric           distance.Metric
	quantized        bool
	install          bool
	maxBytes         int64
	tier             distance.Tier
	hasTier          bool
	concurrency      int
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
}

func defaultOptions() options {
	return options{
		metric:           distance.MetricL2,
		concurrency:      runtime.GOMAXPROCS(0),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
}

// Option configures Open, Load and New.
type Option func(*options)

// WithMetric selects the metric used by Distance and Pairwise.
// The default is distance.MetricL2.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithQuantized declares that the stored set carries a product-quantization
// codebook after its header and that its rows are uint8 codes.
func WithQuantized() Option {
	return func(o *options) {
		o.quantized = true
	}
}

// WithInstall publishes the codebook of a quantized set as the process-wide
// quantizer once loading succeeded. Without it the codebook is bound only to
// the collection's own engine.
func WithInstall() Option {
	return func(o *options) {
		o.install = true
	}
}

// WithMaxBytes bounds the size of the decoded row data.
func WithMaxBytes(n int64) Option {
	return func(o *options) {
		o.maxBytes = n
	}
}

// WithTier forces the kernel tier of the collection's engine.
func WithTier(t distance.Tier) Option {
	return func(o *options) {
		o.tier = t
		o.hasTier = true
	}
}

// WithConcurrency bounds the goroutines used by Pairwise.
// Values below one mean GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.concurrency = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecdist.BasicMetricsCollector{}
//	c, _ := vecdist.Open(ctx, store, "base.bin", distance.Float32, vecdist.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Loads: %d, bytes: %d\n", stats.LoadCount, stats.LoadBytes)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vecdist.NewJSONLogger(slog.LevelInfo)
//	c, _ := vecdist.Open(ctx, store, "base.bin", distance.Int8, vecdist.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithResourceController applies the limits of rc to Open and Load.
// Row data reserved for a collection is returned to rc by Collection.Close.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}
