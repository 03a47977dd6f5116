package hugealloc

import (
	"github.com/hupe1980/hugealloc/resource"
)

type options struct {
	logger     *Logger
	metrics    MetricsCollector
	system     SystemAllocator
	controller *resource.Controller
}

// Option configures Allocator construction.
type Option func(*options)

// WithLogger sets the logger. By default logging is disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector sets the metrics collector. By default metrics are
// discarded.
func WithMetricsCollector(collector MetricsCollector) Option {
	return func(o *options) {
		if collector == nil {
			collector = NoopMetricsCollector{}
		}
		o.metrics = collector
	}
}

// WithSystemAllocator replaces the fallback allocator used for requests
// below the threshold. The default is HeapAllocator.
func WithSystemAllocator(system SystemAllocator) Option {
	return func(o *options) {
		if system == nil {
			system = HeapAllocator{}
		}
		o.system = system
	}
}

// WithResourceController attaches a mapped-memory budget. Mappings that
// would exceed the budget fail with ErrBudgetExceeded; the budget governs
// mapped memory only, never the system allocator's heap.
func WithResourceController(controller *resource.Controller) Option {
	return func(o *options) {
		o.controller = controller
	}
}
