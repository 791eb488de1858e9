package sig

import (
	"github.com/AnatoleLucet/signalgraph/internal"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// ID identifies a signal or computation within its runtime.
type ID uint64

type Disposable interface {
	Dispose()
}

// Readable is anything whose value can be read, tracking the dependency if within a reactive context.
type Readable[T any] interface {
	ID() ID
	Read() T
	Peek() T
}

// Writable is a Readable that can be written to.
type Writable[T any] interface {
	Readable[T]
	Write(v T)
	Update(fn func(T) T)
}

var (
	_ Writable[int] = (*Signal[int])(nil)
	_ Readable[int] = (*Computed[int])(nil)
	_ Disposable    = (*Signal[int])(nil)
	_ Disposable    = (*Computed[int])(nil)
	_ Disposable    = (*Effect)(nil)
	_ Disposable    = (*Owner)(nil)
)

// Runtime owns a reactive graph: its signals, computations and scheduling state.
// A runtime is bound to the goroutine that created it, see Bind.
type Runtime struct {
	rt *internal.Runtime
}

// NewRuntime creates an empty reactive graph.
func NewRuntime(opts ...Option) *Runtime {
	config := internal.DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Runtime{internal.NewRuntime(config)}
}

// Batch batches multiple signal writes into a single propagation pass,
// instead of triggering updates after each write.
// The pass runs when the outermost batch returns, even if fn panics.
func (r *Runtime) Batch(fn func()) {
	r.rt.NewBatch(fn)
}

// Flush runs any pending work, like writes left queued after the pass limit was hit.
func (r *Runtime) Flush() {
	r.rt.Flush()
}

// OnCleanup registers a function to be called when the current owner is disposed
// or, inside a computation, before it re-runs.
func (r *Runtime) OnCleanup(fn func()) {
	r.rt.OnCleanup(fn)
}

// OnSettled runs fn once, when the next flush has no work left.
func (r *Runtime) OnSettled(fn func()) {
	r.rt.OnSettled(internal.SettleAll, fn)
}

// OnUserSettled runs fn once, after the user effects of the next pass.
func (r *Runtime) OnUserSettled(fn func()) {
	r.rt.OnSettled(internal.SettleUser, fn)
}

// OnRenderSettled runs fn once, after the render effects of the next pass.
func (r *Runtime) OnRenderSettled(fn func()) {
	r.rt.OnSettled(internal.SettleRender, fn)
}

// Bind moves the runtime to the calling goroutine. It fails with ErrRuntimeBusy
// while a pass, batch or computation is in progress.
func (r *Runtime) Bind() error {
	return r.rt.Bind()
}

// Stats returns counters accumulated since the runtime was created.
func (r *Runtime) Stats() Stats {
	return r.rt.Stats()
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](r *Runtime, fn func() T) T {
	var result T
	r.rt.Untrack(func() { result = fn() })
	return result
}

type Signal[T any] struct {
	signal *internal.Signal
}

// NewSignal creates your typical read/write signal.
func NewSignal[T any](r *Runtime, initial T) *Signal[T] {
	return &Signal[T]{
		r.rt.NewSignal(initial),
	}
}

// WithEqual replaces the comparison used to skip writes of an unchanged value.
func (s *Signal[T]) WithEqual(equal func(a, b T) bool) *Signal[T] {
	s.signal.SetEqual(func(a, b any) bool { return equal(as[T](a), as[T](b)) })
	return s
}

func (s *Signal[T]) ID() ID { return ID(s.signal.ID()) }

// Read the current value of the signal, tracking the dependency if within a reactive context.
// Reading a disposed signal panics with an error matching ErrUseAfterDispose.
func (s *Signal[T]) Read() T {
	return as[T](s.signal.Read())
}

// Peek reads the current value without tracking.
func (s *Signal[T]) Peek() T {
	return as[T](s.signal.Peek())
}

// Write a new value to the signal, triggering updates to any dependents.
// Writes made while the graph is propagating are applied in the next pass.
func (s *Signal[T]) Write(v T) {
	s.signal.Write(v)
}

// Update writes fn applied to the value the signal holds when the write is applied.
func (s *Signal[T]) Update(fn func(T) T) {
	s.signal.Update(func(v any) any { return fn(as[T](v)) })
}

// Dispose unlinks the signal from its subscribers. Further reads and writes panic.
func (s *Signal[T]) Dispose() { s.signal.Dispose() }

func (s *Signal[T]) IsDisposed() bool { return s.signal.IsDisposed() }

type Computed[T any] struct {
	computed *internal.Computed
}

// NewComputed creates a computed signal that derives its value from other signals (its a memo).
// It is evaluated right away, then again whenever something it read changes.
func NewComputed[T any](r *Runtime, compute func() T) *Computed[T] {
	return &Computed[T]{
		r.rt.NewComputed(func() any {
			return compute()
		}),
	}
}

// WithEqual replaces the comparison deciding whether a new value is propagated.
func (c *Computed[T]) WithEqual(equal func(a, b T) bool) *Computed[T] {
	c.computed.SetEqual(func(a, b any) bool { return equal(as[T](a), as[T](b)) })
	return c
}

func (c *Computed[T]) ID() ID { return ID(c.computed.ID()) }

// Read the current value of the computed signal, tracking the dependency if within a reactive context.
func (c *Computed[T]) Read() T {
	return as[T](c.computed.Read())
}

// Peek reads the last computed value without tracking.
func (c *Computed[T]) Peek() T {
	return as[T](c.computed.Peek())
}

// Err returns the failure of the last run, if it panicked. The previous value is kept.
func (c *Computed[T]) Err() error { return c.computed.Err() }

// Runs counts how many times the computation ran.
func (c *Computed[T]) Runs() int { return c.computed.Runs() }

// Dependencies lists what the last run read, in read order.
func (c *Computed[T]) Dependencies() []ID { return dependencies(c.computed) }

func (c *Computed[T]) Dispose() { c.computed.Dispose() }

func (c *Computed[T]) IsDisposed() bool { return c.computed.IsDisposed() }

type Effect struct {
	effect *internal.Computed
}

// NewEffect creates a reactive effect that runs the given function
// whenever its dependencies change.
func NewEffect(r *Runtime, fn func()) *Effect {
	return &Effect{r.rt.NewEffect(internal.EffectUser, fn)}
}

// NewRenderEffect is an effect that runs before the user effects of a pass.
func NewRenderEffect(r *Runtime, fn func()) *Effect {
	return &Effect{r.rt.NewEffect(internal.EffectRender, fn)}
}

func (e *Effect) ID() ID { return ID(e.effect.ID()) }

// Err returns the failure of the last run, if it panicked.
func (e *Effect) Err() error { return e.effect.Err() }

func (e *Effect) Runs() int { return e.effect.Runs() }

func (e *Effect) Dependencies() []ID { return dependencies(e.effect) }

// Dispose stops the effect, running its cleanups.
func (e *Effect) Dispose() { e.effect.Dispose() }

func (e *Effect) IsDisposed() bool { return e.effect.IsDisposed() }

func dependencies(c *internal.Computed) []ID {
	ids := []ID{}
	for dep := range c.Deps() {
		ids = append(ids, ID(dep.ID()))
	}
	return ids
}

type Context[T any] struct {
	ctx *internal.Context
}

// NewContext creates a new reactive context with an initial value.
func NewContext[T any](r *Runtime, initial T) *Context[T] {
	return &Context[T]{
		r.rt.NewContext(initial),
	}
}

// Value retrieves the current value of the context,
// inheriting from parent owners if not set in the current owner.
func (c *Context[T]) Value() T {
	return as[T](c.ctx.Value())
}

// Set a new value for the context in the current owner.
func (c *Context[T]) Set(value T) {
	c.ctx.Set(value)
}

type Owner struct {
	owner *internal.Owner
}

// NewOwner creates a new reactive owner.
// An owner manages the lifecycle of reactive nodes created within its context.
func NewOwner(r *Runtime) *Owner {
	return &Owner{
		r.rt.NewOwner(),
	}
}

// Run a function within the context of this owner.
// Each reactive node created within the function will be a child of this owner,
// and will be disposed when owner.Dispose() is called on this owner.
func (o *Owner) Run(fn func() error) error { return o.owner.Run(fn) }

// Dispose this owner and all its children.
func (o *Owner) Dispose() { o.owner.Dispose() }

// Add a cleanup function to be called ONCE when the owner is disposed.
func (o *Owner) OnCleanup(fn func()) { o.owner.OnCleanup(fn) }

// Add a function to be called when the owner is disposed (each time Dispose is called).
func (o *Owner) OnDispose(fn func()) { o.owner.OnDispose(fn) }

// Add a function to be called when a computation owned (directly or not) by this owner fails,
// or when Run panics.
// If no error listener is registered up the owner chain, the failure goes to the runtime's error handler.
func (o *Owner) OnError(fn func(error)) { o.owner.OnError(fn) }
