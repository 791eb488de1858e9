package sig

import "github.com/AnatoleLucet/signalgraph/internal"

type (
	// Observer receives scheduling events. It is called synchronously on the runtime's goroutine
	// and must not use the runtime.
	Observer = internal.Observer

	PassStats = internal.PassStats
	Stats     = internal.Stats

	Kind = internal.NodeKind
)

const (
	KindSignal = internal.KindSignal
	KindMemo   = internal.KindMemo
	KindEffect = internal.KindEffect
)

// NopObserver can be embedded to implement only part of Observer.
type NopObserver = internal.NopObserver
