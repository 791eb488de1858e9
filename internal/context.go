package internal

// Context is a value scoped to the owner tree.
type Context struct {
	initial any

	r *Runtime
}

func (r *Runtime) NewContext(initial any) *Context {
	r.checkAccess()

	return &Context{initial: initial, r: r}
}

// Value returns the value set on the closest owner, or the initial value.
func (ctx *Context) Value() any {
	ctx.r.checkAccess()

	owner := ctx.r.tracker.CurrentOwner()
	if owner == nil {
		return ctx.initial
	}

	if v, ok := owner.lookup(ctx); ok {
		return v
	}

	return ctx.initial
}

// Set stores the value on the current owner. Without an owner there is nowhere to keep it.
func (ctx *Context) Set(value any) {
	ctx.r.checkAccess()

	if owner := ctx.r.tracker.CurrentOwner(); owner != nil {
		owner.context[ctx] = value
	}
}
