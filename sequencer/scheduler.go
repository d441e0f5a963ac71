package sequencer

import (
	"sync"
	"time"
)

// Scheduler runs callbacks after a delay. Scheduling with a key that
// already has a pending callback replaces it, so rapid repeated requests
// coalesce into the last one. Used to batch scale-table recomputation
// and to defer the post-scroll range notification.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[string]*time.Timer)}
}

// Schedule arranges fn to run after delay, superseding any pending
// callback registered under the same key.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.timers[key] = time.AfterFunc(delay, fn)
}

// Stop cancels all pending callbacks.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, t := range s.timers {
		t.Stop()
		delete(s.timers, k)
	}
}
