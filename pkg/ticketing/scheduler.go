package ticketing

import (
	"sync"
	"time"

	"github.com/Jacobbrewer1/warden/pkg/clock"
)

// Scheduler runs keyed tasks after a delay. Pending tasks can be cancelled, and Stop cancels
// everything that has not started yet.
type Scheduler struct {
	clock clock.Clock

	mu      sync.Mutex
	tasks   map[string]*task
	stopped bool

	// running counts tasks that are scheduled or executing.
	running sync.WaitGroup
}

type task struct {
	timer     *clock.Timer
	cancelled bool
}

// NewScheduler creates a new scheduler.
func NewScheduler(clk clock.Clock) *Scheduler {
	return &Scheduler{
		clock: clk,
		tasks: make(map[string]*task),
	}
}

// Schedule runs fn after d. A pending task with the same key is replaced. It returns false once
// the scheduler is stopped.
func (s *Scheduler) Schedule(key string, d time.Duration, fn func()) bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	if old, ok := s.tasks[key]; ok {
		s.cancelLocked(old)
	}

	t := new(task)
	s.tasks[key] = t
	s.running.Add(1)
	ScheduledDeletions.Inc()
	s.mu.Unlock()

	timer := s.clock.AfterFunc(d, func() {
		defer s.running.Done()

		s.mu.Lock()
		if s.tasks[key] == t {
			delete(s.tasks, key)
		}
		cancelled := t.cancelled
		if !cancelled {
			ScheduledDeletions.Dec()
		}
		s.mu.Unlock()

		if !cancelled {
			fn()
		}
	})

	s.mu.Lock()
	t.timer = timer
	s.mu.Unlock()
	return true
}

// Cancel cancels the pending task with the key. It returns false if there is none.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	delete(s.tasks, key)
	s.cancelLocked(t)
	return true
}

func (s *Scheduler) cancelLocked(t *task) {
	if t.cancelled {
		return
	}
	t.cancelled = true
	ScheduledDeletions.Dec()

	// A timer that can no longer be stopped still runs its callback, which releases the task.
	if t.timer.Stop() {
		s.running.Done()
	}
}

// Pending returns the keys of the tasks that have not run yet.
func (s *Scheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.tasks))
	for k := range s.tasks {
		keys = append(keys, k)
	}
	return keys
}

// Stop cancels every pending task and rejects new ones. It returns the keys of the cancelled
// tasks.
func (s *Scheduler) Stop() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	keys := make([]string, 0, len(s.tasks))
	for k, t := range s.tasks {
		keys = append(keys, k)
		s.cancelLocked(t)
	}
	s.tasks = make(map[string]*task)
	return keys
}

// Wait blocks until every task that was not cancelled has finished.
func (s *Scheduler) Wait() {
	s.running.Wait()
}
