package lazytext

// scratch is the single live mutable buffer of a build execution.
// It owns a backing array of fixed capacity and tracks the still-live
// window: [off, off+used) holds written-but-unsealed units, everything
// from off+used on is writable. Invariant: off + used + free() == cap.
type scratch struct {
	units []uint16 // backing array, len == capacity
	off   int      // start of the live region
	used  int      // units written since the last freeze
}

func newScratch(capacity int) *scratch {
	if capacity < 1 {
		capacity = 1
	}
	return &scratch{units: make([]uint16, capacity)}
}

func (s *scratch) free() int {
	return len(s.units) - s.off - s.used
}

// write fills exactly n units at the write position. The caller must
// have established free() >= n.
func (s *scratch) write(n int, fill func([]uint16)) {
	start := s.off + s.used
	fill(s.units[start : start+n : start+n])
	s.used += n
}

// copyIn copies the units into the write position. The caller must
// have established free() >= len(units).
func (s *scratch) copyIn(units []uint16) {
	copy(s.units[s.off+s.used:], units)
	s.used += len(units)
}

// freeze seals [off, off+used) into a chunk and advances the live
// region past it. The backing array's tail keeps serving as scratch;
// the frozen prefix is never written again because the write window
// starts at the new off+used. The caller must check used > 0: chunks
// are never empty.
func (s *scratch) freeze() Chunk {
	end := s.off + s.used
	ch := Chunk{units: s.units[s.off:end:end]}
	s.off = end
	s.used = 0
	return ch
}

// retire freezes the pending prefix and invalidates the handle.
// Ownership of the whole backing array transfers to the emitted chunk;
// any later write through this scratch panics.
func (s *scratch) retire() Chunk {
	ch := s.freeze()
	s.units = nil
	s.off = 0
	return ch
}
