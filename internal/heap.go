package internal

// PriorityHeap buckets dirty computations by height, so that draining it
// visits them in topological order.
type PriorityHeap struct {
	min  int
	max  int
	size int

	nodes []*heapNode // [height]head

	lookup map[*Computed]*heapNode // for O(1) removal
}

type heapNode struct {
	node *Computed

	// the height the node was bucketed at
	height int

	next *heapNode
	prev *heapNode
}

func NewHeap() *PriorityHeap {
	return &PriorityHeap{
		nodes:  make([]*heapNode, 64),
		lookup: make(map[*Computed]*heapNode),
	}
}

func (h *PriorityHeap) Len() int { return h.size }

func (h *PriorityHeap) Insert(node *Computed) {
	if node.HasFlag(FlagInHeap) {
		return
	}
	node.AddFlag(FlagInHeap)

	height := node.GetHeight()
	for height >= len(h.nodes) {
		h.nodes = append(h.nodes, make([]*heapNode, len(h.nodes))...)
	}

	entry := &heapNode{node: node, height: height}
	h.lookup[node] = entry

	if h.nodes[height] == nil {
		h.nodes[height] = entry
		entry.prev = entry // loop to self
		entry.next = nil
	} else {
		head := h.nodes[height]
		tail := head.prev

		tail.next = entry
		entry.prev = tail
		entry.next = nil
		head.prev = entry
	}

	if h.size == 0 || height < h.min {
		h.min = height
	}
	if h.size == 0 || height > h.max {
		h.max = height
	}
	h.size++
}

func (h *PriorityHeap) Remove(node *Computed) {
	if !node.HasFlag(FlagInHeap) {
		return
	}
	node.RemoveFlag(FlagInHeap)

	entry, ok := h.lookup[node]
	if !ok {
		return
	}
	delete(h.lookup, node)
	h.size--

	height := entry.height
	head := h.nodes[height]

	// single node
	if entry == head && entry.next == nil {
		h.nodes[height] = nil
		return
	}

	// multiple nodes
	if entry == head {
		h.nodes[height] = entry.next
		entry.next.prev = entry.prev
		return
	}

	entry.prev.next = entry.next
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		head.prev = entry.prev
	}
}

// Move changes the height of node, rebucketing it if it is queued.
func (h *PriorityHeap) Move(node *Computed, height int) {
	if !node.HasFlag(FlagInHeap) {
		node.height = height
		return
	}

	h.Remove(node)
	node.height = height
	h.Insert(node)
}

// Pop removes and returns the lowest node, nil when empty.
func (h *PriorityHeap) Pop() *Computed {
	if h.size == 0 {
		return nil
	}

	for h.nodes[h.min] == nil {
		h.min++
	}

	node := h.nodes[h.min].node
	h.Remove(node)

	return node
}

// Drain processes each entry in topological order with the `process` function leaving the heap empty.
// Entries inserted while draining are processed too.
func (h *PriorityHeap) Drain(process func(*Computed)) {
	for node := h.Pop(); node != nil; node = h.Pop() {
		process(node)
	}

	h.min, h.max = 0, 0
}
