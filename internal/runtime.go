package internal

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Runtime owns a reactive graph. It is bound to a single goroutine.
type Runtime struct {
	gid atomic.Int64

	config Config
	logger *slog.Logger

	nextID uint64

	// incremented by every refresh, see Computed.pulled
	pulls uint64

	heap        *PriorityHeap
	tracker     *Tracker
	batcher     *Batcher
	scheduler   *Scheduler
	writes      *WriteQueue
	effectQueue *EffectQueue
	settled     *SettledQueue

	// computations re-triggered in a pass they already ran in
	deferred []*Computed

	stats     Stats
	passStats PassStats
}

func NewRuntime(config Config) *Runtime {
	config = config.normalize()

	r := &Runtime{
		config: config,
		logger: config.Logger,

		heap:        NewHeap(),
		tracker:     NewTracker(),
		batcher:     &Batcher{},
		scheduler:   NewScheduler(),
		writes:      NewWriteQueue(),
		effectQueue: NewEffectQueue(),
		settled:     NewSettledQueue(),
	}
	r.gid.Store(getGID())

	return r
}

// Flush runs propagation passes until the graph is settled.
// It is a no-op when called from within a pass or a running computation.
func (r *Runtime) Flush() {
	r.checkAccess()

	if r.tracker.Running() {
		return
	}

	r.scheduler.Run(func() {
		passes := 0

		for {
			if !r.hasWork() {
				if r.settled.Len(SettleAll) == 0 {
					return
				}

				r.settled.Run(SettleAll)
				continue
			}

			if passes >= r.config.MaxPasses {
				r.stats.CycleWarnings++
				r.logger.Warn("sig: computations keep re-triggering each other, leaving work queued",
					"passes", passes,
					"pending_writes", r.writes.Len(),
					"deferred", len(r.deferred),
					"err", ErrDeferralLimit,
				)
				r.config.Observer.DeferralLimitExceeded(passes)
				return
			}

			passes++
			r.runPass()
		}
	})
}

func (r *Runtime) runPass() {
	start := time.Now()
	r.passStats = PassStats{Pass: r.scheduler.Tick()}

	r.passStats.Writes = r.writes.Commit()

	deferred := r.deferred
	r.deferred = nil
	for _, c := range deferred {
		c.RemoveFlag(FlagDeferred)
		r.schedule(c)
	}

	r.heap.Drain(r.recompute)

	r.effectQueue.RunEffects(EffectRender, r.run)
	r.settled.Run(SettleRender)

	r.effectQueue.RunEffects(EffectUser, r.run)
	r.settled.Run(SettleUser)

	stats := r.passStats
	stats.Duration = time.Since(start)
	r.stats.Passes++

	r.logger.Debug("sig: pass completed",
		"pass", stats.Pass,
		"runs", stats.Runs,
		"effects", stats.EffectRuns,
		"deferred", stats.Deferred,
		"writes", stats.Writes,
		"duration", stats.Duration,
	)
	r.config.Observer.PassCompleted(stats)
}

func (r *Runtime) hasWork() bool {
	return r.heap.Len() > 0 || r.effectQueue.Len() > 0 || r.writes.Len() > 0 || len(r.deferred) > 0
}

// isPropagating reports whether a write now would re-enter propagation.
func (r *Runtime) isPropagating() bool {
	return r.scheduler.Running() || r.tracker.Running()
}

// markSubs schedules every subscriber of a node that changed.
func (r *Runtime) markSubs(n *ReactiveNode) {
	for sub := range n.Subs() {
		r.schedule(sub)
	}
}

func (r *Runtime) schedule(c *Computed) {
	if c.IsDisposed() {
		return
	}

	// already ran in this pass, try again in the next one
	if r.scheduler.Running() && c.lastPass == r.scheduler.Time() {
		if !c.HasFlag(FlagDeferred) {
			c.AddFlag(FlagDeferred)
			r.deferred = append(r.deferred, c)
			r.passStats.Deferred++
			r.stats.Deferred++
		}
		return
	}

	c.AddFlag(FlagDirty)
	r.heap.Insert(c)
}

// recompute is called for each node drained from the heap.
func (r *Runtime) recompute(c *Computed) {
	if c.IsDisposed() {
		return
	}

	// effects wait for every memo of the pass to settle
	if c.Kind() == KindEffect && r.scheduler.Running() {
		r.effectQueue.Enqueue(c)
		return
	}

	r.run(c)
}

// run re-executes a computation, replacing its dependency edges with the ones read this time.
func (r *Runtime) run(c *Computed) {
	if c.IsDisposed() {
		return
	}

	r.heap.Remove(c)
	c.lastPass = r.scheduler.Time()
	c.RemoveFlag(FlagDirty)

	r.cleanup(c)
	c.ClearDeps()

	prev := c.value
	value, err := r.execute(c)

	c.runs++
	r.stats.Runs++
	r.passStats.Runs++
	if c.Kind() == KindEffect {
		r.stats.EffectRuns++
		r.passStats.EffectRuns++
	}

	// disposed by its own body
	if c.IsDisposed() {
		c.ClearDeps()
		return
	}

	r.adjustHeight(c)

	if err != nil {
		c.err = err
		r.reportError(c, err)
		return
	}
	c.err = nil

	if c.Kind() != KindMemo {
		return
	}

	if c.initialized && c.equal(prev, value) {
		return
	}

	c.initialized = true
	c.value = value
	r.markSubs(c.ReactiveNode)
}

func (r *Runtime) execute(c *Computed) (value any, err error) {
	c.AddFlag(FlagRunning)
	defer func() {
		c.RemoveFlag(FlagRunning)

		if rec := recover(); rec != nil {
			err = asError(rec)
		}
	}()

	r.tracker.RunWithComputation(c, func() {
		value = c.compute()
	})

	return value, nil
}

// refresh brings a memo up to date before it is read. The stale memos it read
// last time are refreshed first, depth first, so it never computes from an old value.
func (r *Runtime) refresh(c *Computed) {
	if r.heap.Len() == 0 {
		return
	}

	r.pulls++
	r.pull(c, r.pulls)
}

func (r *Runtime) pull(c *Computed, epoch uint64) {
	if c.pulled == epoch || c.HasFlag(FlagRunning) || c.IsDisposed() {
		return
	}
	c.pulled = epoch

	for dep := range c.Deps() {
		if up := dep.computation; up != nil && up.Kind() == KindMemo {
			r.pull(up, epoch)
		}
	}

	// an upstream change may have put c in the heap
	if c.HasFlag(FlagInHeap) && !c.HasFlag(FlagRunning) {
		r.run(c)
	}
}

// cleanup disposes what the previous run created and runs its cleanups.
func (r *Runtime) cleanup(c *Computed) {
	defer func() {
		if rec := recover(); rec != nil {
			r.reportError(c, asError(rec))
		}
	}()

	r.tracker.RunUntracked(c.Owner.reset)
}

// maxHeight bounds heights by the number of nodes. Only a cycle between memos
// would climb past it, one level per pass.
func (r *Runtime) maxHeight() int {
	return int(r.nextID) + 1
}

// adjustHeight recomputes a node's height after a run and pushes its subscribers above it.
func (r *Runtime) adjustHeight(c *Computed) {
	limit := r.maxHeight()
	c.height = min(c.MaxDepHeight(), limit)

	var seen map[*Computed]struct{}
	work := []*ReactiveNode{c.ReactiveNode}

	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]

		for sub := range n.Subs() {
			height := min(n.height+1, limit)
			if sub.height >= height {
				continue
			}

			if seen == nil {
				seen = map[*Computed]struct{}{c: {}}
			}
			// a cycle between memos, heights cannot be ordered
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}

			r.heap.Move(sub, height)
			work = append(work, sub.ReactiveNode)
		}
	}
}

func (r *Runtime) reportError(c *Computed, err error) {
	r.stats.Failures++
	r.passStats.Failures++

	r.config.Observer.ComputationFailed(c.ID(), c.Kind(), err)

	if c.Owner.catch(err) {
		return
	}

	cerr := &ComputationError{ID: c.ID(), Kind: c.Kind(), Err: err}
	if r.config.OnError != nil {
		r.config.OnError(cerr)
		return
	}

	r.logger.Error("sig: computation failed", "id", c.ID(), "kind", c.Kind().String(), "err", err)
}

func (r *Runtime) CurrentOwner() *Owner {
	return r.tracker.CurrentOwner()
}

func (r *Runtime) CurrentComputation() *Computed {
	return r.tracker.CurrentComputation()
}

func (r *Runtime) OnCleanup(fn func()) {
	r.checkAccess()

	owner := r.CurrentOwner()
	if owner != nil {
		owner.OnCleanup(fn)
	}
}

// OnSettled queues fn for the given phase, see SettlePhase.
func (r *Runtime) OnSettled(phase SettlePhase, fn func()) {
	r.checkAccess()
	r.settled.Enqueue(phase, fn)
}

func (r *Runtime) Untrack(fn func()) {
	r.checkAccess()
	r.tracker.RunUntracked(fn)
}

func (r *Runtime) Stats() Stats {
	return r.stats
}

func (r *Runtime) Logger() *slog.Logger {
	return r.logger
}
