package internal

// DependencyLink is one edge of the graph. It is threaded through the
// dependency's subscriber list and the subscriber's dependency list at the same time.
type DependencyLink struct {
	dep *ReactiveNode
	sub *Computed

	prevDep *DependencyLink
	nextDep *DependencyLink

	prevSub *DependencyLink
	nextSub *DependencyLink
}
