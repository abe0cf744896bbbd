package ecs

// Sequence hands out monotonic IDs per entity kind. Each simulation run owns
// its own Sequence, so independent runs never share counters.
type Sequence struct {
	next [kindCount]EntityID
}

// NewSequence creates a Sequence whose first ID of every kind is 1.
func NewSequence() *Sequence {
	s := &Sequence{}
	s.Reset()
	return s
}

// Next mints the next ID for kind k.
func (s *Sequence) Next(k Kind) EntityID {
	if s.next[k] == NilEntity {
		s.next[k] = 1
	}
	id := s.next[k]
	s.next[k]++
	return id
}

// Reset rewinds every counter to 1.
func (s *Sequence) Reset() {
	for i := range s.next {
		s.next[i] = 1
	}
}
