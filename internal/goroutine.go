package internal

import (
	"github.com/petermattis/goid"
)

func getGID() int64 {
	return goid.Get()
}

// checkAccess panics when the runtime is used away from the goroutine it is bound to.
func (r *Runtime) checkAccess() {
	if !r.config.CheckGoroutine {
		return
	}

	owner := r.gid.Load()
	if gid := getGID(); gid != owner {
		panic(&GoroutineError{Owner: owner, Caller: gid})
	}
}

// Bind hands the runtime over to the calling goroutine.
// The previous goroutine must be done with it, and the handover synchronized by the caller.
func (r *Runtime) Bind() error {
	if r.scheduler.Running() || r.batcher.IsBatching() || r.tracker.Running() {
		return ErrRuntimeBusy
	}

	r.gid.Store(getGID())

	return nil
}
