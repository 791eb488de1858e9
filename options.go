package sig

import (
	"log/slog"

	"github.com/AnatoleLucet/signalgraph/internal"
)

type Option func(*internal.Config)

// WithLogger sets the logger used for pass traces (debug), feedback loops (warn)
// and unhandled computation failures (error). Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *internal.Config) {
		c.Logger = logger
	}
}

// WithObserver registers observers notified of passes and failures.
func WithObserver(observers ...Observer) Option {
	return func(c *internal.Config) {
		switch len(observers) {
		case 0:
		case 1:
			c.Observer = observers[0]
		default:
			c.Observer = internal.MultiObserver(observers)
		}
	}
}

// WithMaxPasses bounds the number of consecutive passes a single flush may run.
// Computations that keep re-triggering each other past that are left queued and reported.
func WithMaxPasses(n int) Option {
	return func(c *internal.Config) {
		c.MaxPasses = n
	}
}

// WithErrorHandler receives computation failures that no owner caught.
// The error is a *ComputationError.
func WithErrorHandler(fn func(error)) Option {
	return func(c *internal.Config) {
		c.OnError = fn
	}
}

// WithoutGoroutineCheck lets any goroutine use the runtime. The caller takes over
// making sure accesses never overlap.
func WithoutGoroutineCheck() Option {
	return func(c *internal.Config) {
		c.CheckGoroutine = false
	}
}
