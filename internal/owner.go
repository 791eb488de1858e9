package internal

import (
	"iter"
)

type Owner struct {
	// cleanup functions, called once on the next dispose (or re-run for computations)
	cleanups []func()

	// called on every dispose
	disposers []func()

	// error handlers
	catchers []func(error)

	// the context values of this owner
	context map[any]any

	parent       *Owner
	prevSibling  *Owner
	nextSibling  *Owner
	childrenHead *Owner

	r *Runtime
}

// NewOwner creates an owner attached to the currently running owner, if any.
func (r *Runtime) NewOwner() *Owner {
	r.checkAccess()

	o := &Owner{
		cleanups: make([]func(), 0),
		context:  make(map[any]any),
		r:        r,
	}

	if parent := r.tracker.CurrentOwner(); parent != nil {
		parent.AddChild(o)
	}

	return o
}

// Run executes fn with this owner as the current owner.
// Panics are handed to the nearest error handler up the owner chain, and re-raised if there is none.
func (o *Owner) Run(fn func() error) (err error) {
	o.r.checkAccess()

	defer func() {
		if rec := recover(); rec != nil {
			if !o.catch(asError(rec)) {
				panic(rec)
			}
		}
	}()

	o.r.tracker.RunWithOwner(o, func() { err = fn() })

	return err
}

// catch hands err to the closest owner that has error handlers.
func (o *Owner) catch(err error) bool {
	for owner := o; owner != nil; owner = owner.parent {
		if len(owner.catchers) == 0 {
			continue
		}

		for _, catcher := range owner.catchers {
			catcher(err)
		}
		return true
	}

	return false
}

func (parent *Owner) AddChild(child *Owner) {
	child.parent = parent
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

func (parent *Owner) removeChild(child *Owner) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else if parent.childrenHead == child {
		parent.childrenHead = child.nextSibling
	}

	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	}

	child.parent, child.prevSibling, child.nextSibling = nil, nil, nil
}

func (o *Owner) Children() iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		child := o.childrenHead

		for child != nil {
			if !yield(child) {
				return
			}

			child = child.nextSibling
		}
	}
}

// Dispose disposes the children (most recent first), runs the cleanups, then the dispose hooks.
func (o *Owner) Dispose() {
	o.reset()

	for _, fn := range o.disposers {
		fn()
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}
}

// reset disposes the children and runs the pending cleanups, keeping the owner usable.
func (o *Owner) reset() {
	o.DisposeChildren()

	cleanups := o.cleanups
	o.cleanups = nil

	for _, fn := range cleanups {
		fn()
	}
}

func (o *Owner) DisposeChildren() {
	child := o.childrenHead
	o.childrenHead = nil

	for child != nil {
		next := child.nextSibling
		child.parent, child.prevSibling, child.nextSibling = nil, nil, nil

		child.Dispose()
		child = next
	}
}

func (o *Owner) OnCleanup(fn func()) {
	o.cleanups = append(o.cleanups, fn)
}

func (o *Owner) OnDispose(fn func()) {
	o.disposers = append(o.disposers, fn)
}

func (o *Owner) OnError(fn func(error)) {
	o.catchers = append(o.catchers, fn)
}

func (o *Owner) Parent() *Owner { return o.parent }

func (o *Owner) lookup(key any) (any, bool) {
	for owner := o; owner != nil; owner = owner.parent {
		if v, ok := owner.context[key]; ok {
			return v, true
		}
	}

	return nil, false
}
