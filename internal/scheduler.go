package internal

type Scheduler struct {
	// incremented at the start of every propagation pass
	// a computation runs at most once per clock value
	clock uint64

	running bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Run executes fn unless a flush is already in progress, in which case the
// outer flush picks up the new work.
func (s *Scheduler) Run(fn func()) bool {
	if s.running {
		return false
	}

	s.running = true
	defer func() { s.running = false }()

	fn()

	return true
}

func (s *Scheduler) Running() bool {
	return s.running
}

// Tick starts a new pass.
func (s *Scheduler) Tick() uint64 {
	s.clock++
	return s.clock
}

func (s *Scheduler) Time() uint64 {
	return s.clock
}
