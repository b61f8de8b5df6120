package lazytext

import (
	"unicode/utf16"
	"unicode/utf8"
)

// ChunkIterator iterates over the chunks of a text, forcing one cell
// per Next.
type ChunkIterator struct {
	rest  Text
	chunk Chunk
}

// Chunks returns an iterator over the text's chunks.
func (t Text) Chunks() *ChunkIterator {
	return &ChunkIterator{rest: t}
}

// Next advances to the next chunk. Returns false when the text is
// exhausted.
func (it *ChunkIterator) Next() bool {
	ch, rest, ok := it.rest.Uncons()
	if !ok {
		it.chunk = Chunk{}
		return false
	}
	it.chunk = ch
	it.rest = rest
	return true
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}

// RuneIterator iterates over the decoded runes of a text. Surrogate
// pairs are joined even when split across a chunk boundary; unpaired
// surrogates decode as U+FFFD.
type RuneIterator struct {
	cur  chunkCursor
	r    rune
	size int
}

// Runes returns an iterator over the text's runes.
func (t Text) Runes() *RuneIterator {
	return &RuneIterator{cur: chunkCursor{rest: t}}
}

// Next advances to the next rune. Returns false when the text is
// exhausted.
func (it *RuneIterator) Next() bool {
	u, ok := it.cur.next()
	if !ok {
		return false
	}
	r := rune(u)
	if !utf16.IsSurrogate(r) {
		it.r, it.size = r, 1
		return true
	}
	u2, ok := it.cur.peek()
	if ok {
		if dec := utf16.DecodeRune(r, rune(u2)); dec != utf8.RuneError {
			it.cur.skip()
			it.r, it.size = dec, 2
			return true
		}
	}
	it.r, it.size = utf8.RuneError, 1
	return true
}

// Rune returns the current rune.
func (it *RuneIterator) Rune() rune {
	return it.r
}

// Size returns the number of code units the current rune occupied
// (1, or 2 for a surrogate pair).
func (it *RuneIterator) Size() int {
	return it.size
}

// peek returns the next unit without consuming it, crossing chunk
// boundaries as needed.
func (c *chunkCursor) peek() (uint16, bool) {
	for c.idx >= len(c.units) {
		ch, rest, ok := c.rest.Uncons()
		if !ok {
			return 0, false
		}
		c.units = ch.units
		c.idx = 0
		c.rest = rest
	}
	return c.units[c.idx], true
}

// skip consumes the unit peek returned.
func (c *chunkCursor) skip() {
	c.idx++
}
