package clock

// Slots holds at most one live timer per kind. Arming a kind always stops
// the timer previously armed under it before the new one is created.
type Slots[K comparable] struct {
	timers map[K]*Timer
}

// NewSlots creates an empty slot set.
func NewSlots[K comparable]() *Slots[K] {
	return &Slots[K]{timers: make(map[K]*Timer)}
}

// Arm cancels the timer held under kind and stores the one returned by start.
func (s *Slots[K]) Arm(kind K, start func() *Timer) *Timer {
	s.Cancel(kind)
	t := start()
	s.timers[kind] = t
	return t
}

// Cancel stops the timer held under kind. It reports whether one was live.
func (s *Slots[K]) Cancel(kind K) bool {
	t, ok := s.timers[kind]
	if !ok {
		return false
	}
	delete(s.timers, kind)
	return t.Stop()
}

// CancelAll stops every held timer.
func (s *Slots[K]) CancelAll() {
	for kind := range s.timers {
		s.Cancel(kind)
	}
}

// Active reports whether the timer held under kind is still pending.
func (s *Slots[K]) Active(kind K) bool {
	return s.timers[kind].Active()
}

// Live returns the number of pending timers across all kinds.
func (s *Slots[K]) Live() int {
	n := 0
	for _, t := range s.timers {
		if t.Active() {
			n++
		}
	}
	return n
}
