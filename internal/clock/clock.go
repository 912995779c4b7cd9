// Package clock provides the injectable time source and the cooperative timer
// scheduler that drives battle ticks, revive countdowns and stage delays.
package clock

import (
	"sync"
	"time"
)

// Clock is the single source of wall-clock time for combat and production math.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

// NewReal creates a clock backed by time.Now.
func NewReal() *Real {
	return &Real{}
}

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now()
}

// Mock is a controllable clock for tests and headless simulation.
type Mock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMock creates a mock clock positioned at start.
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

// Now returns the mocked time.
func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the mock to t.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the mock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Drive advances the mock by d, stopping at every timer deadline on the way
// so each callback observes the exact time it was scheduled for.
func Drive(m *Mock, s *Scheduler, d time.Duration) int {
	target := m.Now().Add(d)
	fired := 0
	for {
		due, ok := s.NextDue()
		if !ok || due.After(target) {
			break
		}
		if due.After(m.Now()) {
			m.Set(due)
		}
		fired += s.RunDue()
	}
	m.Set(target)
	return fired + s.RunDue()
}
