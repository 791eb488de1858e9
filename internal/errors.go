package internal

import (
	"errors"
	"fmt"
)

var (
	ErrUseAfterDispose  = errors.New("sig: use after dispose")
	ErrForeignGoroutine = errors.New("sig: runtime accessed from a foreign goroutine")
	ErrDeferralLimit    = errors.New("sig: deferral limit exceeded")
	ErrRuntimeBusy      = errors.New("sig: runtime is busy")
)

type Op string

const (
	OpRead    Op = "read"
	OpWrite   Op = "write"
	OpUpdate  Op = "update"
	OpDispose Op = "dispose"
)

// DisposedError is raised when a disposed signal or computation is accessed.
type DisposedError struct {
	ID   uint64
	Kind NodeKind
	Op   Op
}

func (e *DisposedError) Error() string {
	return fmt.Sprintf("%s: %s of disposed %s #%d", ErrUseAfterDispose, e.Op, e.Kind, e.ID)
}

func (e *DisposedError) Unwrap() error { return ErrUseAfterDispose }

// GoroutineError is raised when a runtime is used outside the goroutine it is bound to.
type GoroutineError struct {
	Owner  int64
	Caller int64
}

func (e *GoroutineError) Error() string {
	return fmt.Sprintf("%s: bound to goroutine %d, called from %d", ErrForeignGoroutine, e.Owner, e.Caller)
}

func (e *GoroutineError) Unwrap() error { return ErrForeignGoroutine }

// PanicError wraps a recovered panic value that was not an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("sig: panic: %v", e.Value)
}

// ComputationError tags a failure with the computation it came from.
type ComputationError struct {
	ID   uint64
	Kind NodeKind
	Err  error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("sig: %s #%d failed: %v", e.Kind, e.ID, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

func asError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}

	return &PanicError{Value: v}
}
