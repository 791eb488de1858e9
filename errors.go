package sig

import "github.com/AnatoleLucet/signalgraph/internal"

var (
	// ErrUseAfterDispose is matched by the panic raised when a disposed signal or computation is used.
	ErrUseAfterDispose = internal.ErrUseAfterDispose

	// ErrForeignGoroutine is matched by the panic raised when a runtime is used outside its goroutine.
	ErrForeignGoroutine = internal.ErrForeignGoroutine

	// ErrDeferralLimit is logged when computations keep re-triggering each other past the pass limit.
	ErrDeferralLimit = internal.ErrDeferralLimit

	// ErrRuntimeBusy is returned by Bind while the runtime is in use.
	ErrRuntimeBusy = internal.ErrRuntimeBusy
)

type (
	DisposedError    = internal.DisposedError
	GoroutineError   = internal.GoroutineError
	PanicError       = internal.PanicError
	ComputationError = internal.ComputationError
)
