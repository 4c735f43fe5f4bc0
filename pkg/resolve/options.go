package resolve

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/mcdata/pkg/id"
)

// Event describes a single engine occurrence passed to Hooks.
type Event struct {
	Key   id.ID
	Scope ScopeRef
	// Duration is set for resolver invocations and includes nested resolutions.
	Duration time.Duration
	// Count is the number of records touched by an invalidation.
	Count int
	// Err is the resolver error, if any.
	Err error
}

// Hooks receives engine events. Nil callbacks are skipped.
type Hooks struct {
	OnResolve    func(Event)
	OnCacheHit   func(Event)
	OnCycle      func(Event)
	OnInvalidate func(Event)
}

func (h Hooks) resolved(e Event) {
	if h.OnResolve != nil {
		h.OnResolve(e)
	}
}

func (h Hooks) cacheHit(e Event) {
	if h.OnCacheHit != nil {
		h.OnCacheHit(e)
	}
}

func (h Hooks) cycle(e Event) {
	if h.OnCycle != nil {
		h.OnCycle(e)
	}
}

func (h Hooks) invalidated(e Event) {
	if h.OnInvalidate != nil {
		h.OnInvalidate(e)
	}
}

type config struct {
	hooks  Hooks
	logger *slog.Logger
	name   string
}

// Option configures a Graph or Layered graph.
type Option func(*config)

// WithHooks registers observability hooks.
func WithHooks(hooks Hooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithLogger sets a structured logger. Engine output is Debug level only.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithName labels the graph in log output.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

func buildConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.name != "" {
		cfg.logger = cfg.logger.With("graph", cfg.name)
	}
	return cfg
}
