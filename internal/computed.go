package internal

import "iter"

// Computed is a computation: a memo when it produces a readable value, an effect otherwise.
type Computed struct {
	*Owner
	*ReactiveNode

	initialized bool

	value any
	err   error
	equal EqualFunc

	compute func() any

	// only meaningful for effects
	effect EffectType

	depsHead *DependencyLink

	// the pass in which the computation last ran
	lastPass uint64
	runs     int

	// the last refresh that visited this computation
	pulled uint64

	r *Runtime
}

func (r *Runtime) NewComputed(compute func() any) *Computed {
	return r.newComputation(KindMemo, EffectUser, compute)
}

func (r *Runtime) newComputation(kind NodeKind, typ EffectType, compute func() any) *Computed {
	r.checkAccess()

	c := &Computed{
		Owner:        r.NewOwner(),
		ReactiveNode: r.newNode(kind),

		equal:   DefaultEqual,
		compute: compute,
		effect:  typ,

		r: r,
	}
	c.height = 1
	c.computation = c
	c.OnDispose(c.teardown)

	r.run(c)

	// the body may have queued writes, flush them unless someone up the stack will
	if !r.isPropagating() && !r.batcher.IsBatching() && r.hasWork() {
		r.Flush()
	}

	return c
}

// SetEqual replaces the comparison used to decide whether subscribers are notified.
func (c *Computed) SetEqual(fn EqualFunc) {
	if fn == nil {
		fn = DefaultEqual
	}
	c.equal = fn
}

// Read returns the memo's value, recomputing it first if it or a memo it depends on is stale.
func (c *Computed) Read() any {
	c.r.checkAccess()
	c.mustBeAlive(OpRead)

	c.r.refresh(c)

	c.r.tracker.Track(c.ReactiveNode)

	return c.value
}

// Peek returns the last computed value without tracking or recomputing.
func (c *Computed) Peek() any {
	c.r.checkAccess()
	c.mustBeAlive(OpRead)

	return c.value
}

func (c *Computed) Err() error { return c.err }

func (c *Computed) Runs() int { return c.runs }

func (c *Computed) Dispose() {
	c.r.checkAccess()
	if c.IsDisposed() {
		return
	}

	c.Owner.Dispose()
}

// teardown unlinks the node from the graph, it runs as the owner's dispose hook.
func (c *Computed) teardown() {
	if c.IsDisposed() {
		return
	}

	c.AddFlag(FlagDisposed)
	c.r.heap.Remove(c)
	c.ClearDeps()
	c.ClearSubs()
}

// Link creates a bidirectional dependency link between this node (subscriber) and the given node (dependency).
func (c *Computed) Link(dep *ReactiveNode) {
	if dep == c.ReactiveNode || c.IsDisposed() {
		return
	}

	// dont link if already present, the most recent dependency is the common case
	if c.depsHead != nil && c.depsHead.prevDep.dep == dep {
		return
	}
	for link := c.depsHead; link != nil; link = link.nextDep {
		if link.dep == dep {
			return
		}
	}

	link := &DependencyLink{dep: dep, sub: c}

	c.addDepLink(link)
	dep.addSubLink(link)

	if dep.height >= c.height {
		c.height = min(dep.height+1, c.r.maxHeight())
	}
}

// Deps returns an iterator over all dependencies, in read order.
func (c *Computed) Deps() iter.Seq[*ReactiveNode] {
	return func(yield func(*ReactiveNode) bool) {
		link := c.depsHead
		for link != nil {
			if !yield(link.dep) {
				return
			}

			link = link.nextDep
		}
	}
}

// ClearDeps removes all dependencies
func (c *Computed) ClearDeps() {
	for link := c.depsHead; link != nil; {
		next := link.nextDep
		link.dep.removeSubLink(link)
		link.prevDep, link.nextDep = nil, nil
		link = next
	}

	c.depsHead = nil
}

// MaxDepHeight returns the height the node should have given its dependencies.
func (c *Computed) MaxDepHeight() int {
	maxHeight := 1
	for dep := range c.Deps() {
		if dep.height >= maxHeight {
			maxHeight = dep.height + 1
		}
	}

	return maxHeight
}

func (c *Computed) addDepLink(link *DependencyLink) {
	if c.depsHead == nil {
		c.depsHead = link
		link.prevDep = link // loop to self
		link.nextDep = nil
	} else {
		tail := c.depsHead.prevDep
		tail.nextDep = link
		link.prevDep = tail
		link.nextDep = nil
		c.depsHead.prevDep = link
	}
}

func (c *Computed) removeDepLink(link *DependencyLink) {
	head := c.depsHead
	if head == nil {
		return
	}

	// single link
	if head == link && link.nextDep == nil {
		c.depsHead = nil
		link.prevDep, link.nextDep = nil, nil
		return
	}

	if link == head {
		c.depsHead = link.nextDep
		c.depsHead.prevDep = link.prevDep
	} else {
		link.prevDep.nextDep = link.nextDep
		if link.nextDep != nil {
			link.nextDep.prevDep = link.prevDep
		} else {
			head.prevDep = link.prevDep
		}
	}

	link.prevDep, link.nextDep = nil, nil
}

func (c *Computed) mustBeAlive(op Op) {
	if c.IsDisposed() {
		panic(&DisposedError{ID: c.id, Kind: c.kind, Op: op})
	}
}
