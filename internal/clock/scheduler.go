package clock

import (
	"container/heap"
	"time"
)

// Timer is a cancel token for a scheduled callback.
type Timer struct {
	sched  *Scheduler
	due    time.Time
	period time.Duration
	seq    uint64
	fn     func()
	index  int // position in the queue, -1 when not queued
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (t *Timer) Stop() bool {
	if t == nil || t.index < 0 {
		return false
	}
	heap.Remove(&t.sched.queue, t.index)
	return true
}

// Active reports whether the timer will fire again.
func (t *Timer) Active() bool {
	return t != nil && t.index >= 0
}

// Due returns the next deadline of the timer.
func (t *Timer) Due() time.Time {
	return t.due
}

// Scheduler runs timer callbacks cooperatively on the goroutine that calls
// RunDue. Callbacks fire in deadline order; ties fire in arming order.
// A Scheduler is not safe for concurrent use.
type Scheduler struct {
	clock Clock
	queue timerQueue
	seq   uint64
}

// NewScheduler creates a scheduler reading deadlines from c.
func NewScheduler(c Clock) *Scheduler {
	return &Scheduler{clock: c}
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() Clock {
	return s.clock
}

// After schedules fn to run once, d from now.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	return s.push(s.clock.Now().Add(d), 0, fn)
}

// Every schedules fn to run every period, first at now+period.
func (s *Scheduler) Every(period time.Duration, fn func()) *Timer {
	if period <= 0 {
		period = time.Millisecond
	}
	return s.push(s.clock.Now().Add(period), period, fn)
}

// NextDue returns the earliest pending deadline.
func (s *Scheduler) NextDue() (time.Time, bool) {
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].due, true
}

// Pending returns the number of live timers.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// RunDue fires every timer whose deadline is at or before the current time
// and returns how many callbacks ran. Callbacks may arm or stop timers.
func (s *Scheduler) RunDue() int {
	now := s.clock.Now()
	fired := 0
	for len(s.queue) > 0 && !s.queue[0].due.After(now) {
		t := heap.Pop(&s.queue).(*Timer)
		if t.period > 0 {
			t.due = t.due.Add(t.period)
			// Resync instead of bursting when the caller fell far behind.
			if now.Sub(t.due) > 2*t.period {
				t.due = now.Add(t.period)
			}
			s.seq++
			t.seq = s.seq
			heap.Push(&s.queue, t)
		}
		t.fn()
		fired++
	}
	return fired
}

func (s *Scheduler) push(due time.Time, period time.Duration, fn func()) *Timer {
	s.seq++
	t := &Timer{sched: s, due: due, period: period, seq: s.seq, fn: fn, index: -1}
	heap.Push(&s.queue, t)
	return t
}

type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
