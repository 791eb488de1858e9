package internal

// frame is one level of the evaluation stack.
type frame struct {
	owner       *Owner    // for lifecycle/cleanup tracking
	computation *Computed // for reactive dependency tracking
	tracking    bool
}

// Tracker holds the evaluation stack. Reads are attributed to the innermost frame.
type Tracker struct {
	stack []frame
}

func NewTracker() *Tracker {
	return &Tracker{
		stack: make([]frame, 0, 16),
	}
}

func (t *Tracker) top() (frame, bool) {
	if len(t.stack) == 0 {
		return frame{tracking: true}, false
	}

	return t.stack[len(t.stack)-1], true
}

func (t *Tracker) push(f frame) {
	t.stack = append(t.stack, f)
}

func (t *Tracker) pop() {
	t.stack[len(t.stack)-1] = frame{}
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *Tracker) RunWithOwner(owner *Owner, fn func()) {
	current, _ := t.top()

	t.push(frame{owner: owner, computation: current.computation, tracking: current.tracking})
	defer t.pop()

	fn()
}

func (t *Tracker) RunWithComputation(node *Computed, fn func()) {
	t.push(frame{owner: node.Owner, computation: node, tracking: true})
	defer t.pop()

	fn()
}

func (t *Tracker) RunUntracked(fn func()) {
	current, _ := t.top()

	t.push(frame{owner: current.owner, computation: current.computation, tracking: false})
	defer t.pop()

	fn()
}

// Track links node to the active computation, if any.
func (t *Tracker) Track(node *ReactiveNode) {
	if current, ok := t.top(); ok && current.tracking && current.computation != nil {
		current.computation.Link(node)
	}
}

func (t *Tracker) ShouldTrack() bool {
	current, ok := t.top()
	return ok && current.tracking && current.computation != nil
}

func (t *Tracker) CurrentOwner() *Owner {
	current, _ := t.top()
	return current.owner
}

func (t *Tracker) CurrentComputation() *Computed {
	current, _ := t.top()
	return current.computation
}

// Running reports whether a computation body is executing.
func (t *Tracker) Running() bool {
	return t.CurrentComputation() != nil
}
