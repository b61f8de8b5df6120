package lazytext

// Driver executes builders. It carries the tuning for buffer and chunk
// granularity; the zero Driver is not valid, use NewDriver. A Driver
// is immutable and may run any number of builds, concurrently or not.
type Driver struct {
	cfg config
}

// NewDriver creates a driver with the given tuning options applied
// over the defaults.
func NewDriver(opts ...Option) *Driver {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Driver{cfg: cfg}
}

// Build executes b and returns its content as a lazy text. No builder
// operation runs until the result is demanded; each chunk demanded
// resumes execution exactly until the next emission. A terminal flush
// seals whatever the last buffer holds, so the trailing buffer is
// discarded empty.
func (d *Driver) Build(b Builder) Text {
	e := &exec{
		cfg: d.cfg,
		buf: newScratch(d.cfg.initialCapacity),
	}
	e.stack = append(e.stack, flushOp)
	if b.op != nil {
		e.stack = append(e.stack, b.op)
	}
	return e.text()
}

// Build executes b with a default driver, applying any tuning options.
func Build(b Builder, opts ...Option) Text {
	return NewDriver(opts...).Build(b)
}

// BuildWith executes b with the given initial buffer capacity and
// default tuning otherwise.
func BuildWith(initialCapacity int, b Builder) Text {
	return NewDriver(WithInitialCapacity(initialCapacity)).Build(b)
}

// exec is one build execution: the op stack still to run, the single
// live scratch buffer, and the cursor of an in-progress lazy splice.
// Exactly one goroutine may advance an exec; the Text cells produced
// by text() enforce single forcing by memoizing.
type exec struct {
	cfg    config
	stack  []*op
	buf    *scratch
	splice Text
}

// text wraps the execution as a suspended lazy text. Each forced cell
// runs step until one chunk is emitted.
func (e *exec) text() Text {
	return suspend(func() (Chunk, Text, bool) {
		ch, ok := e.step()
		if !ok {
			return Chunk{}, Text{}, false
		}
		return ch, e.text(), true
	})
}

// step resumes execution until exactly one chunk is emitted, returning
// false when the builder is exhausted. Ops are popped from the stack
// and never mutated; when an op must be resumed after an emission it
// is pushed back as is.
func (e *exec) step() (Chunk, bool) {
	// Drain an in-progress splice first: one spliced chunk per demand,
	// so the source text is never forced ahead of the consumer.
	if ch, rest, ok := e.splice.Uncons(); ok {
		e.splice = rest
		return ch, true
	}

	for len(e.stack) > 0 {
		o := e.stack[len(e.stack)-1]
		e.stack = e.stack[:len(e.stack)-1]

		switch o.kind {
		case opAppend:
			// Right below left so left's effects run first.
			e.stack = append(e.stack, o.right, o.left)

		case opEnsure:
			if ch, emitted := e.ensure(o.n); emitted {
				return ch, true
			}

		case opWrite:
			if e.buf.free() < o.n {
				e.stack = append(e.stack, o)
				if ch, emitted := e.ensure(o.n); emitted {
					return ch, true
				}
				continue
			}
			e.buf.write(o.n, o.fill)

		case opFlush:
			if e.buf.used > 0 {
				return e.buf.freeze(), true
			}

		case opChunk:
			if o.chunk.Len() <= e.cfg.inlineThreshold {
				if e.buf.free() < o.chunk.Len() {
					e.stack = append(e.stack, o)
					if ch, emitted := e.ensure(o.chunk.Len()); emitted {
						return ch, true
					}
					continue
				}
				e.buf.copyIn(o.chunk.units)
				continue
			}
			// Splice: seal pending scratch first so order is kept,
			// then hand over the chunk itself without copying.
			if e.buf.used > 0 {
				e.stack = append(e.stack, o)
				return e.buf.freeze(), true
			}
			return o.chunk, true

		case opText:
			if e.buf.used > 0 {
				e.stack = append(e.stack, o)
				return e.buf.freeze(), true
			}
			if ch, rest, ok := o.text.Uncons(); ok {
				e.splice = rest
				return ch, true
			}
		}
	}
	return Chunk{}, false
}

// ensure establishes free() >= n, replacing the buffer when it cannot
// hold n more units. A pending prefix is frozen and emitted; the old
// handle is retired so a write through it would panic.
func (e *exec) ensure(n int) (Chunk, bool) {
	if e.buf.free() >= n {
		return Chunk{}, false
	}
	size := n
	if size < e.cfg.chunkSize {
		size = e.cfg.chunkSize
	}
	if e.buf.used > 0 {
		ch := e.buf.retire()
		e.buf = newScratch(size)
		return ch, true
	}
	e.buf = newScratch(size)
	return Chunk{}, false
}
