package internal

import "time"

// PassStats describes one propagation pass.
type PassStats struct {
	Pass uint64

	// computations that ran, effects included
	Runs       int
	EffectRuns int

	// re-triggers pushed to the next pass
	Deferred int
	Failures int

	// writes queued by the previous pass that changed a value
	Writes int

	Duration time.Duration
}

// Stats accumulates over the runtime's lifetime.
type Stats struct {
	Passes        uint64
	Runs          int
	EffectRuns    int
	Deferred      int
	Failures      int
	CycleWarnings int
}

// Observer receives scheduling events. Implementations must not touch the runtime.
type Observer interface {
	PassCompleted(stats PassStats)
	ComputationFailed(id uint64, kind NodeKind, err error)
	DeferralLimitExceeded(passes int)
}

type NopObserver struct{}

func (NopObserver) PassCompleted(PassStats)                   {}
func (NopObserver) ComputationFailed(uint64, NodeKind, error) {}
func (NopObserver) DeferralLimitExceeded(int)                 {}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

func (m MultiObserver) PassCompleted(stats PassStats) {
	for _, o := range m {
		o.PassCompleted(stats)
	}
}

func (m MultiObserver) ComputationFailed(id uint64, kind NodeKind, err error) {
	for _, o := range m {
		o.ComputationFailed(id, kind, err)
	}
}

func (m MultiObserver) DeferralLimitExceeded(passes int) {
	for _, o := range m {
		o.DeferralLimitExceeded(passes)
	}
}
