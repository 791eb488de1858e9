package internal

type EffectQueue struct {
	effects map[EffectType][]*Computed
}

func NewEffectQueue() *EffectQueue {
	effects := make(map[EffectType][]*Computed)
	effects[EffectRender] = make([]*Computed, 0)
	effects[EffectUser] = make([]*Computed, 0)

	return &EffectQueue{effects}
}

func (q *EffectQueue) Enqueue(effect *Computed) {
	if effect.HasFlag(FlagQueued) {
		return
	}
	effect.AddFlag(FlagQueued)

	q.effects[effect.effect] = append(q.effects[effect.effect], effect)
}

// RunEffects runs the queued effects of the given type until none is left, skipping disposed ones.
func (q *EffectQueue) RunEffects(typ EffectType, run func(*Computed)) {
	for len(q.effects[typ]) > 0 {
		effects := q.effects[typ]
		q.effects[typ] = make([]*Computed, 0, len(effects))

		for _, effect := range effects {
			effect.RemoveFlag(FlagQueued)
			if effect.IsDisposed() {
				continue
			}

			run(effect)
		}
	}
}

func (q *EffectQueue) Len() int {
	return len(q.effects[EffectRender]) + len(q.effects[EffectUser])
}

type pendingWrite struct {
	signal *Signal
	update func(any) any
}

// WriteQueue holds writes issued during a pass, they are applied at the start of the next one.
type WriteQueue struct {
	writes []pendingWrite
}

func NewWriteQueue() *WriteQueue {
	return &WriteQueue{
		writes: make([]pendingWrite, 0),
	}
}

func (q *WriteQueue) Enqueue(signal *Signal, update func(any) any) {
	q.writes = append(q.writes, pendingWrite{signal, update})
}

// Commit applies the queued writes in order, returns how many changed a value.
func (q *WriteQueue) Commit() int {
	writes := q.writes
	q.writes = make([]pendingWrite, 0, len(writes))

	changed := 0
	for _, w := range writes {
		if w.signal.IsDisposed() {
			continue
		}

		if w.signal.commit(w.update(w.signal.value)) {
			changed++
		}
	}

	return changed
}

func (q *WriteQueue) Len() int {
	return len(q.writes)
}

type SettlePhase int

const (
	// after the render effects of the next pass
	SettleRender SettlePhase = iota
	// after the user effects of the next pass
	SettleUser
	// once a flush has no work left
	SettleAll
)

type SettledQueue struct {
	callbacks map[SettlePhase][]func()
}

func NewSettledQueue() *SettledQueue {
	return &SettledQueue{
		callbacks: make(map[SettlePhase][]func()),
	}
}

func (q *SettledQueue) Enqueue(phase SettlePhase, fn func()) {
	q.callbacks[phase] = append(q.callbacks[phase], fn)
}

func (q *SettledQueue) Run(phase SettlePhase) {
	callbacks := q.callbacks[phase]
	q.callbacks[phase] = nil

	for _, cb := range callbacks {
		cb()
	}
}

func (q *SettledQueue) Len(phase SettlePhase) int {
	return len(q.callbacks[phase])
}
