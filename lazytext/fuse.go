package lazytext

// fuseLimit caps the size of a merged write. Merging composes fill
// closures, so the cap also bounds their nesting depth when long runs
// of small writes are appended one by one.
const fuseLimit = 128

// fuse merges two adjacent ops into one equivalent op at construction
// time, or returns nil when no merge applies. Merges never change
// content: adjacent writes become one larger write, adjacent capacity
// requests keep the maximum, adjacent flushes collapse (the second
// would see an empty buffer and do nothing anyway).
func fuse(l, r *op) *op {
	switch {
	case l.kind == opFlush && r.kind == opFlush:
		return l
	case l.kind == opEnsure && r.kind == opEnsure:
		if r.n > l.n {
			return r
		}
		return l
	case l.kind == opWrite && r.kind == opWrite && l.n+r.n <= fuseLimit:
		lf, rf, ln := l.fill, r.fill, l.n
		return &op{
			kind: opWrite,
			n:    l.n + r.n,
			fill: func(dst []uint16) {
				lf(dst[:ln:ln])
				rf(dst[ln:])
			},
		}
	}
	return nil
}
