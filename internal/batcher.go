package internal

// Batcher counts nested batches. Writes made while batching commit right away
// but only the outermost batch flushes.
type Batcher struct {
	depth int
}

func (b *Batcher) IsBatching() bool { return b.depth > 0 }

// Batch runs fn, calling onComplete when the outermost batch exits, panics included.
func (b *Batcher) Batch(fn, onComplete func()) {
	b.depth++
	defer func() {
		if b.depth--; b.depth == 0 {
			onComplete()
		}
	}()

	fn()
}

// NewBatch runs fn as a batch and flushes once it returns.
func (r *Runtime) NewBatch(fn func()) {
	r.checkAccess()
	r.batcher.Batch(fn, r.Flush)
}
