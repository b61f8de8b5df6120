package lazytext

import (
	"unicode"
	"unicode/utf16"
)

// Builder is an immutable, composable description of content: direct
// writes, capacity requests, chunk boundaries, and spliced-in existing
// chunks or texts. The zero value is the empty builder, the identity
// of Append. Builders are cheap values that share structure; appending
// two builders never inspects or copies what they already represent.
type Builder struct {
	op *op
}

// opKind discriminates builder operations.
type opKind uint8

const (
	opAppend opKind = iota // run left then right
	opWrite                // ensure n free units, then fill exactly n
	opEnsure               // ensure n free units
	opFlush                // seal pending scratch content into a chunk
	opChunk                // inline or splice an existing chunk
	opText                 // splice an existing lazy text
)

// op is one node of a builder's operation tree. Ops are immutable
// after construction, which is what makes builders shareable across
// executions. Like rope nodes, one struct carries the fields of every
// variant; only those for the node's kind are set.
type op struct {
	kind        opKind
	left, right *op            // opAppend
	n           int            // opWrite, opEnsure
	fill        func([]uint16) // opWrite
	chunk       Chunk          // opChunk
	text        Text           // opText
}

// flushOp is shared by every Flush builder; ops are immutable so a
// single node serves all of them.
var flushOp = &op{kind: opFlush}

// Empty returns the empty builder. Executing it writes nothing and
// emits nothing; it is the identity of Append.
func Empty() Builder {
	return Builder{}
}

// IsEmpty reports whether the builder is the empty builder.
func (b Builder) IsEmpty() bool {
	return b.op == nil
}

// Append returns a builder that runs b's effects, then next's effects,
// against the same threaded buffer. Cost is O(1): no content is
// inspected or copied until the composed builder is executed.
// Adjacent small writes, capacity requests, and flushes fuse at
// construction time; fusion never alters content, only chunk
// boundaries not fixed by an explicit Flush.
func (b Builder) Append(next Builder) Builder {
	if b.op == nil {
		return next
	}
	if next.op == nil {
		return b
	}
	if fused := fuse(b.op, next.op); fused != nil {
		return Builder{op: fused}
	}
	return Builder{op: &op{kind: opAppend, left: b.op, right: next.op}}
}

// Concat appends the parts in order.
func Concat(parts ...Builder) Builder {
	var b Builder
	for _, p := range parts {
		b = b.Append(p)
	}
	return b
}

// Join appends the parts in order with sep between adjacent parts.
func Join(sep Builder, parts []Builder) Builder {
	var b Builder
	for i, p := range parts {
		if i > 0 {
			b = b.Append(sep)
		}
		b = b.Append(p)
	}
	return b
}

// Repeat returns a builder producing n copies of b. Builders share
// structure, so construction is O(log n) by doubling.
func Repeat(b Builder, n int) Builder {
	if n <= 0 || b.op == nil {
		return Builder{}
	}
	var out Builder
	for n > 0 {
		if n&1 == 1 {
			out = out.Append(b)
		}
		b = b.Append(b)
		n >>= 1
	}
	return out
}

// Flush returns a builder that seals whatever the scratch buffer holds
// at that point into a chunk, forcing a chunk boundary even when the
// buffer is not full. Content is unaffected; only boundaries move.
func Flush() Builder {
	return Builder{op: flushOp}
}

// FromRune returns a builder writing one Unicode scalar value: one
// code unit below U+10000, otherwise a surrogate pair (high unit
// first). Surrogate halves and out-of-range values encode U+FFFD, as
// in the stdlib conversions; content is never dropped.
func FromRune(r rune) Builder {
	if r < 0 || r > unicode.MaxRune || utf16.IsSurrogate(r) {
		r = unicode.ReplacementChar
	}
	if r < 0x10000 {
		u := uint16(r)
		return writeN(1, func(dst []uint16) {
			dst[0] = u
		})
	}
	hi, lo := utf16.EncodeRune(r)
	h, l := uint16(hi), uint16(lo)
	return writeN(2, func(dst []uint16) {
		dst[0] = h
		dst[1] = l
	})
}

// FromChunk returns a builder embedding an existing chunk. An empty
// chunk behaves as Empty. At execution time a chunk no longer than the
// driver's inline threshold is copied into the scratch buffer so small
// fragments batch with adjacent writes; a longer chunk forces a flush
// and is spliced into the output without copying its backing memory.
func FromChunk(c Chunk) Builder {
	if c.IsEmpty() {
		return Builder{}
	}
	return Builder{op: &op{kind: opChunk, chunk: c}}
}

// FromText returns a builder embedding an existing lazy text: a flush
// followed by every chunk of t spliced into the output in order, with
// no copying. t is pulled one chunk per demand, never forced ahead of
// consumption.
func FromText(t Text) Builder {
	if t.cell == nil {
		return Builder{}
	}
	return Builder{op: &op{kind: opText, text: t}}
}

// FromString returns a builder writing the UTF-16 encoding of s.
// Short strings batch into the scratch buffer; long ones are spliced
// as their own chunk.
func FromString(s string) Builder {
	if len(s) == 0 {
		return Builder{}
	}
	return FromChunk(NewChunk(s))
}

// writeN is the primitive all direct writers are built from: ensure n
// free units, then fill exactly n at the write position. fill must
// write every unit of its argument and must not retain it.
func writeN(n int, fill func([]uint16)) Builder {
	if n <= 0 {
		return Builder{}
	}
	return Builder{op: &op{kind: opWrite, n: n, fill: fill}}
}

// ensureFree requests capacity without writing: after it executes, the
// live buffer has at least n free units. Useful as a prefix for
// primitives that write incrementally.
func ensureFree(n int) Builder {
	if n <= 0 {
		return Builder{}
	}
	return Builder{op: &op{kind: opEnsure, n: n}}
}
