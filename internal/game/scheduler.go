package game

import (
	"sync"
	"time"
)

// DefaultTurnDuration is how long a member holds drawing rights before the
// scheduler rotates on its own.
const DefaultTurnDuration = 60 * time.Second

// TurnListener receives every rotation. previous is empty on the first turn.
type TurnListener func(previous, current string, deadline time.Time)

// Scheduler rotates drawing rights round-robin over a queue of member names.
// It is not safe for concurrent use on its own: callers hold the owning
// session's lock, and deadline expiries take that same lock before touching
// the scheduler.
type Scheduler struct {
	domain    sync.Locker
	limit     time.Duration
	queue     []string
	running   bool
	current   string
	deadline  time.Time
	timer     *time.Timer
	gen       uint64
	listeners []TurnListener
	now       func() time.Time
}

func NewScheduler(domain sync.Locker, members []string, limit time.Duration) *Scheduler {
	if limit <= 0 {
		limit = DefaultTurnDuration
	}
	queue := make([]string, len(members))
	copy(queue, members)
	return &Scheduler{
		domain: domain,
		limit:  limit,
		queue:  queue,
		now:    time.Now,
	}
}

func (s *Scheduler) OnTurnChange(listener TurnListener) {
	s.listeners = append(s.listeners, listener)
}

func (s *Scheduler) Start() error {
	if s.running {
		return newError(KindSchedulerAlreadyRunning, "Scheduler is already running.")
	}
	if len(s.queue) == 0 {
		return newError(KindEmptyQueue, "Queue to draw is empty.")
	}
	s.running = true
	s.ScheduleNext()
	return nil
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.running = false
}

// ScheduleNext hands drawing rights to the head of the queue and re-enqueues
// it at the tail.
func (s *Scheduler) ScheduleNext() {
	s.cancel()
	if len(s.queue) == 0 {
		return
	}
	previous := s.current
	s.current = s.queue[0]
	s.queue = append(s.queue[1:], s.current)
	s.deadline = s.now().Add(s.limit)

	gen := s.gen
	s.timer = time.AfterFunc(s.limit, func() {
		s.expire(gen)
	})

	for _, listener := range s.listeners {
		listener(previous, s.current, s.deadline)
	}
}

func (s *Scheduler) AddUser(name string) {
	s.queue = append(s.queue, name)
}

func (s *Scheduler) RemoveUser(name string) {
	if s.running {
		if len(s.queue) <= 2 {
			s.Stop()
			s.current = ""
			s.deadline = time.Time{}
		} else if name == s.current {
			s.ScheduleNext()
		}
	}
	kept := s.queue[:0]
	for _, member := range s.queue {
		if member != name {
			kept = append(kept, member)
		}
	}
	s.queue = kept
}

func (s *Scheduler) Running() bool {
	return s.running
}

func (s *Scheduler) Current() string {
	return s.current
}

func (s *Scheduler) Deadline() time.Time {
	return s.deadline
}

func (s *Scheduler) TimeLimit() time.Duration {
	return s.limit
}

// Queue returns the upcoming order; the active member sits at the tail.
func (s *Scheduler) Queue() []string {
	out := make([]string, len(s.queue))
	copy(out, s.queue)
	return out
}

// cancel disarms the pending deadline. Bumping the generation also neutralises
// a timer that already fired and is waiting for the domain lock.
func (s *Scheduler) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) expire(gen uint64) {
	s.domain.Lock()
	defer s.domain.Unlock()
	if !s.running || gen != s.gen {
		return
	}
	s.ScheduleNext()
}
