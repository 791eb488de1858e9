package internal

type Signal struct {
	*ReactiveNode

	value any
	equal EqualFunc

	r *Runtime
}

func (r *Runtime) NewSignal(initial any) *Signal {
	r.checkAccess()

	return &Signal{
		ReactiveNode: r.newNode(KindSignal),
		value:        initial,
		equal:        DefaultEqual,
		r:            r,
	}
}

// SetEqual replaces the comparison used to skip no-op writes.
func (s *Signal) SetEqual(fn EqualFunc) {
	if fn == nil {
		fn = DefaultEqual
	}
	s.equal = fn
}

func (s *Signal) Read() any {
	s.r.checkAccess()
	s.mustBeAlive(OpRead)

	s.r.tracker.Track(s.ReactiveNode)

	return s.value
}

// Peek returns the value without tracking.
func (s *Signal) Peek() any {
	s.r.checkAccess()
	s.mustBeAlive(OpRead)

	return s.value
}

func (s *Signal) Write(v any) {
	s.r.checkAccess()
	s.mustBeAlive(OpWrite)

	// writes issued while the graph is propagating wait for the next pass
	if s.r.isPropagating() {
		s.r.writes.Enqueue(s, func(any) any { return v })
		return
	}

	if s.commit(v) && !s.r.batcher.IsBatching() {
		s.r.Flush()
	}
}

func (s *Signal) Update(fn func(any) any) {
	s.r.checkAccess()
	s.mustBeAlive(OpUpdate)

	if s.r.isPropagating() {
		s.r.writes.Enqueue(s, fn)
		return
	}

	if s.commit(fn(s.value)) && !s.r.batcher.IsBatching() {
		s.r.Flush()
	}
}

func (s *Signal) Dispose() {
	s.r.checkAccess()
	if s.IsDisposed() {
		return
	}

	s.AddFlag(FlagDisposed)
	s.ClearSubs()
}

// commit stores the value and marks subscribers dirty. It reports whether the value changed.
func (s *Signal) commit(v any) bool {
	if s.equal(s.value, v) {
		return false
	}

	s.value = v
	s.r.markSubs(s.ReactiveNode)

	return true
}

func (s *Signal) mustBeAlive(op Op) {
	if s.IsDisposed() {
		panic(&DisposedError{ID: s.id, Kind: s.kind, Op: op})
	}
}
