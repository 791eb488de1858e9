package internal

import "log/slog"

const DefaultMaxPasses = 1000

type Config struct {
	Logger   *slog.Logger
	Observer Observer

	// consecutive passes a single flush may run before giving up on a feedback loop
	MaxPasses int

	// called for computation failures no owner caught
	OnError func(err error)

	CheckGoroutine bool
}

func DefaultConfig() Config {
	return Config{
		Logger:         slog.Default(),
		Observer:       NopObserver{},
		MaxPasses:      DefaultMaxPasses,
		CheckGoroutine: true,
	}
}

func (c Config) normalize() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Observer == nil {
		c.Observer = NopObserver{}
	}
	if c.MaxPasses <= 0 {
		c.MaxPasses = DefaultMaxPasses
	}

	return c
}
