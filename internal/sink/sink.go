// Package sink streams built text to its destination: an encoding
// pass, optional gzip compression, and an optional running content
// digest, all applied chunk by chunk so the build stays lazy end to
// end.
package sink

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/juju/errors"
	"github.com/klauspost/compress/gzip"

	"github.com/dshills/loom/lazytext"
)

// Options selects the output treatment.
type Options struct {
	// Encoding is the byte encoding of the output.
	Encoding lazytext.Encoding
	// BOM prefixes the output with a byte order mark.
	BOM bool
	// Gzip compresses the encoded stream.
	Gzip bool
	// Digest computes a 64-bit xxHash of the encoded (pre-compression)
	// stream while writing.
	Digest bool
}

// Result reports what a write produced.
type Result struct {
	// Encoded is the byte count of the encoded stream, before
	// compression.
	Encoded int64
	// Written is the byte count that reached the destination (equal to
	// Encoded unless compressing).
	Written int64
	// Digest is the xxHash of the encoded stream, valid when
	// HasDigest is set.
	Digest    uint64
	HasDigest bool
}

// Write streams txt into w with the selected treatment. The text is
// forced only as fast as w accepts bytes.
func Write(w io.Writer, txt lazytext.Text, opts Options) (Result, error) {
	var res Result
	wire := &countWriter{w: w}

	var dst io.Writer = wire
	var gz *gzip.Writer
	if opts.Gzip {
		gz = gzip.NewWriter(wire)
		dst = gz
	}

	var dig *xxhash.Digest
	if opts.Digest {
		dig = xxhash.New()
		dst = io.MultiWriter(dst, dig)
	}

	encoded, err := txt.EncodeTo(dst, opts.Encoding, opts.BOM)
	if err != nil {
		return res, errors.Annotatef(err, "writing output")
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return res, errors.Annotatef(err, "finishing gzip stream")
		}
	}

	res.Encoded = encoded
	res.Written = wire.n
	if dig != nil {
		res.Digest = dig.Sum64()
		res.HasDigest = true
	}
	return res, nil
}

// WriteFile streams txt into the file at path, creating or truncating
// it. Path "-" or "" writes to stdout.
func WriteFile(path string, txt lazytext.Text, opts Options) (Result, error) {
	if path == "" || path == "-" {
		return Write(os.Stdout, txt, opts)
	}

	f, err := os.Create(path)
	if err != nil {
		return Result{}, errors.Annotatef(err, "creating output file")
	}
	res, werr := Write(f, txt, opts)
	if cerr := f.Close(); werr == nil && cerr != nil {
		werr = errors.Annotatef(cerr, "closing output file")
	}
	if werr != nil {
		return Result{}, werr
	}
	return res, nil
}

type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
