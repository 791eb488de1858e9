package internal

import "iter"

type NodeFlags int

const (
	FlagNone NodeFlags = 0
	// the node has to recompute
	FlagDirty NodeFlags = 1 << iota
	FlagInHeap
	// the node's body is currently executing
	FlagRunning
	// the effect is waiting in the effect queue
	FlagQueued
	// the node was re-triggered in a pass it already ran in
	FlagDeferred
	FlagDisposed
)

type NodeKind int

const (
	KindSignal NodeKind = iota
	KindMemo
	KindEffect
)

func (k NodeKind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindMemo:
		return "memo"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// ReactiveNode is the source side of the graph: anything that can be read and subscribed to.
type ReactiveNode struct {
	id   uint64
	kind NodeKind

	// the current height of the node in the dependency graph
	height int

	// the node's state
	flags NodeFlags

	subsHead *DependencyLink

	// set when the node is a computation
	computation *Computed
}

func (r *Runtime) newNode(kind NodeKind) *ReactiveNode {
	r.nextID++

	return &ReactiveNode{
		id:   r.nextID,
		kind: kind,
	}
}

func (n *ReactiveNode) ID() uint64 { return n.id }

func (n *ReactiveNode) Kind() NodeKind { return n.kind }

func (n *ReactiveNode) GetHeight() int { return n.height }

func (n *ReactiveNode) HasFlag(flag NodeFlags) bool {
	return n.flags&flag != 0
}

func (n *ReactiveNode) AddFlag(flag NodeFlags) {
	n.flags |= flag
}

func (n *ReactiveNode) RemoveFlag(flag NodeFlags) {
	n.flags &^= flag
}

func (n *ReactiveNode) IsDisposed() bool {
	return n.HasFlag(FlagDisposed)
}

// Subs returns an iterator over the computations subscribed to this node.
func (n *ReactiveNode) Subs() iter.Seq[*Computed] {
	return func(yield func(*Computed) bool) {
		link := n.subsHead
		for link != nil {
			// grab next first, the consumer may unlink the current one
			next := link.nextSub
			if !yield(link.sub) {
				return
			}

			link = next
		}
	}
}

// ClearSubs removes every subscriber link, in both directions.
func (n *ReactiveNode) ClearSubs() {
	for link := n.subsHead; link != nil; {
		next := link.nextSub
		link.sub.removeDepLink(link)
		link = next
	}

	n.subsHead = nil
}

func (n *ReactiveNode) addSubLink(link *DependencyLink) {
	if n.subsHead == nil {
		n.subsHead = link
		link.prevSub = link // loop to self
		link.nextSub = nil
	} else {
		tail := n.subsHead.prevSub
		tail.nextSub = link
		link.prevSub = tail
		link.nextSub = nil
		n.subsHead.prevSub = link
	}
}

func (n *ReactiveNode) removeSubLink(link *DependencyLink) {
	head := n.subsHead
	if head == nil {
		return
	}

	// single link
	if head == link && link.nextSub == nil {
		n.subsHead = nil
		link.prevSub, link.nextSub = nil, nil
		return
	}

	if link == head {
		n.subsHead = link.nextSub
		n.subsHead.prevSub = link.prevSub
	} else {
		link.prevSub.nextSub = link.nextSub
		if link.nextSub != nil {
			link.nextSub.prevSub = link.prevSub
		} else {
			head.prevSub = link.prevSub
		}
	}

	link.prevSub, link.nextSub = nil, nil
}
