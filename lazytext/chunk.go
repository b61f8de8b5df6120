package lazytext

import "unicode/utf16"

// Chunk is an immutable, fixed-content sequence of UTF-16 code units.
// Chunks are the terminal data unit of built output: every chunk a
// build emits is non-empty, and its content never changes after
// creation.
type Chunk struct {
	units []uint16
}

// NewChunk creates a chunk from a string, encoding it as UTF-16 code
// units. Invalid UTF-8 in s is replaced with U+FFFD, matching the
// stdlib conversion rules.
func NewChunk(s string) Chunk {
	if len(s) == 0 {
		return Chunk{}
	}
	return Chunk{units: utf16.Encode([]rune(s))}
}

// ChunkFromRunes creates a chunk from a rune slice.
func ChunkFromRunes(rs []rune) Chunk {
	if len(rs) == 0 {
		return Chunk{}
	}
	return Chunk{units: utf16.Encode(rs)}
}

// ChunkFromUnits creates a chunk from raw UTF-16 code units. The units
// are copied; the caller keeps ownership of the slice. No validation
// is performed: unpaired surrogates are preserved and decode as U+FFFD.
func ChunkFromUnits(units []uint16) Chunk {
	if len(units) == 0 {
		return Chunk{}
	}
	cp := make([]uint16, len(units))
	copy(cp, units)
	return Chunk{units: cp}
}

// Len returns the number of UTF-16 code units in the chunk.
func (c Chunk) Len() int {
	return len(c.units)
}

// IsEmpty returns true if the chunk contains no code units.
func (c Chunk) IsEmpty() bool {
	return len(c.units) == 0
}

// Unit returns the code unit at index i.
func (c Chunk) Unit(i int) uint16 {
	return c.units[i]
}

// Units returns a copy of the chunk's code units.
func (c Chunk) Units() []uint16 {
	if len(c.units) == 0 {
		return nil
	}
	cp := make([]uint16, len(c.units))
	copy(cp, c.units)
	return cp
}

// AppendUnits appends the chunk's code units to dst and returns the
// extended slice.
func (c Chunk) AppendUnits(dst []uint16) []uint16 {
	return append(dst, c.units...)
}

// String decodes the chunk to a Go string. Unpaired surrogates decode
// as U+FFFD.
func (c Chunk) String() string {
	if len(c.units) == 0 {
		return ""
	}
	return string(utf16.Decode(c.units))
}

// Equal reports whether two chunks hold identical code units.
func (c Chunk) Equal(other Chunk) bool {
	if len(c.units) != len(other.units) {
		return false
	}
	for i, u := range c.units {
		if other.units[i] != u {
			return false
		}
	}
	return true
}

// Summary computes aggregate metrics for the chunk's content.
func (c Chunk) Summary() Summary {
	return summarize(c.String(), len(c.units))
}
