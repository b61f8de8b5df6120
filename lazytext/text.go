package lazytext

import "strings"

// Text is a lazily produced sequence of non-empty chunks whose
// concatenation is the logical content. The zero value is the empty
// text. Cells are memoized: forcing the same cell twice runs the
// underlying execution once, so a Text can be re-read from any
// retained position.
//
// Forcing a Text is not goroutine-safe; force it fully (Force) before
// sharing it across goroutines.
type Text struct {
	cell *cell
}

type cellState uint8

const (
	cellSuspended cellState = iota
	cellNode
	cellEmpty
)

// cell is one node of the lazy chunk list. A suspended cell holds the
// computation producing its chunk and successor; forcing replaces the
// computation with its result.
type cell struct {
	state cellState
	chunk Chunk
	rest  Text
	gen   func() (Chunk, Text, bool)
}

// suspend wraps a computation as an unforced text. gen runs at most
// once, when the cell is first demanded.
func suspend(gen func() (Chunk, Text, bool)) Text {
	return Text{cell: &cell{state: cellSuspended, gen: gen}}
}

// EmptyText returns the empty text.
func EmptyText() Text {
	return Text{}
}

// NewText creates a text holding s as a single chunk. An empty string
// yields the empty text.
func NewText(s string) Text {
	return FromChunks([]Chunk{NewChunk(s)})
}

// FromChunks creates a text from chunks in order. Empty chunks are
// skipped: a text never contains one.
func FromChunks(chunks []Chunk) Text {
	t := Text{}
	for i := len(chunks) - 1; i >= 0; i-- {
		if chunks[i].IsEmpty() {
			continue
		}
		t = Text{cell: &cell{state: cellNode, chunk: chunks[i], rest: t}}
	}
	return t
}

// Uncons forces the first cell and returns the head chunk and the
// remainder. ok is false for the empty text. The returned chunk is
// never empty.
func (t Text) Uncons() (Chunk, Text, bool) {
	c := t.cell
	if c == nil {
		return Chunk{}, Text{}, false
	}
	if c.state == cellSuspended {
		ch, rest, ok := c.gen()
		c.gen = nil
		if ok {
			c.state, c.chunk, c.rest = cellNode, ch, rest
		} else {
			c.state = cellEmpty
		}
	}
	if c.state == cellEmpty {
		return Chunk{}, Text{}, false
	}
	return c.chunk, c.rest, true
}

// IsEmpty reports whether the text has no content. It forces at most
// the first cell.
func (t Text) IsEmpty() bool {
	_, _, ok := t.Uncons()
	return !ok
}

// Append concatenates two texts lazily: neither operand is forced
// until the result is consumed past it.
func (t Text) Append(u Text) Text {
	if t.cell == nil {
		return u
	}
	if u.cell == nil {
		return t
	}
	return suspend(func() (Chunk, Text, bool) {
		if ch, rest, ok := t.Uncons(); ok {
			return ch, rest.Append(u), true
		}
		return u.Uncons()
	})
}

// Force runs the whole underlying execution, leaving every cell
// materialized. It returns t for chaining. A forced text is immutable
// and safe to share across goroutines.
func (t Text) Force() Text {
	for cur := t; ; {
		_, rest, ok := cur.Uncons()
		if !ok {
			return t
		}
		cur = rest
	}
}

// Len returns the total number of code units, forcing the whole text.
func (t Text) Len() int {
	n := 0
	for it := t.Chunks(); it.Next(); {
		n += it.Chunk().Len()
	}
	return n
}

// String decodes the whole text to a Go string, forcing it.
func (t Text) String() string {
	var sb strings.Builder
	for it := t.Chunks(); it.Next(); {
		sb.WriteString(it.Chunk().String())
	}
	return sb.String()
}

// Units returns all code units in one slice, forcing the whole text.
func (t Text) Units() []uint16 {
	var out []uint16
	for it := t.Chunks(); it.Next(); {
		out = it.Chunk().AppendUnits(out)
	}
	return out
}

// ToChunk concatenates the whole text into a single chunk.
func (t Text) ToChunk() Chunk {
	units := t.Units()
	if len(units) == 0 {
		return Chunk{}
	}
	return Chunk{units: units}
}

// Equal reports whether two texts hold identical code units. Chunk
// boundaries do not participate: texts with different chunking but the
// same content are equal. Both texts are forced only as far as the
// first difference.
func (t Text) Equal(u Text) bool {
	a := chunkCursor{rest: t}
	b := chunkCursor{rest: u}
	for {
		ua, oka := a.next()
		ub, okb := b.next()
		if oka != okb {
			return false
		}
		if !oka {
			return true
		}
		if ua != ub {
			return false
		}
	}
}

// chunkCursor walks a text one code unit at a time.
type chunkCursor struct {
	rest  Text
	units []uint16
	idx   int
}

func (c *chunkCursor) next() (uint16, bool) {
	for c.idx >= len(c.units) {
		ch, rest, ok := c.rest.Uncons()
		if !ok {
			return 0, false
		}
		c.units = ch.units
		c.idx = 0
		c.rest = rest
	}
	u := c.units[c.idx]
	c.idx++
	return u, true
}
