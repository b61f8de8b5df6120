package lazytext

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned by ParseEncoding for names outside
// the supported set.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Encoding selects a byte-level interchange form for texts. The
// in-memory representation is always UTF-16 code units; Encoding only
// governs how texts are read from and written to byte streams.
type Encoding uint8

const (
	// UTF8 is the default interchange form.
	UTF8 Encoding = iota
	// UTF16LE is little-endian UTF-16.
	UTF16LE
	// UTF16BE is big-endian UTF-16.
	UTF16BE
)

// String returns the conventional name of the encoding.
func (e Encoding) String() string {
	switch e {
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	default:
		return "utf-8"
	}
}

// ParseEncoding maps a conventional name to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "utf-8", "utf8", "":
		return UTF8, nil
	case "utf-16le", "utf16le":
		return UTF16LE, nil
	case "utf-16be", "utf16be":
		return UTF16BE, nil
	default:
		return UTF8, fmt.Errorf("%w %q", ErrUnknownEncoding, name)
	}
}

// textEncoding returns the x/text encoding with the given BOM policy
// on the encode side.
func (e Encoding) textEncoding(withBOM bool) encoding.Encoding {
	bom := unicode.IgnoreBOM
	if withBOM {
		bom = unicode.UseBOM
	}
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, bom)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, bom)
	default:
		if withBOM {
			return unicode.UTF8BOM
		}
		return unicode.UTF8
	}
}

// WriteTo streams the text's UTF-8 form into w, forcing chunks only as
// they are written. It implements io.WriterTo.
func (t Text) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for it := t.Chunks(); it.Next(); {
		n, err := io.WriteString(w, it.Chunk().String())
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Reader returns a reader streaming the text's UTF-8 form. Chunks are
// forced on demand: a reader that stops early leaves the rest of the
// build unexecuted.
func (t Text) Reader() io.Reader {
	return &textReader{it: t.Chunks()}
}

type textReader struct {
	it  *ChunkIterator
	buf []byte
}

func (r *textReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if !r.it.Next() {
			return 0, io.EOF
		}
		r.buf = []byte(r.it.Chunk().String())
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// EncodeTo streams the text into w in the given byte encoding,
// prefixed with a byte order mark when withBOM is set. It returns the
// number of bytes written to w.
func (t Text) EncodeTo(w io.Writer, enc Encoding, withBOM bool) (int64, error) {
	cw := &countingWriter{w: w}
	if enc == UTF8 && !withBOM {
		if _, err := t.WriteTo(cw); err != nil {
			return cw.n, err
		}
		return cw.n, nil
	}
	tw := transform.NewWriter(cw, enc.textEncoding(withBOM).NewEncoder())
	if _, err := t.WriteTo(tw); err != nil {
		return cw.n, fmt.Errorf("encode %s: %w", enc, err)
	}
	if err := tw.Close(); err != nil {
		return cw.n, fmt.Errorf("encode %s: %w", enc, err)
	}
	return cw.n, nil
}

// DecodeBytes interprets data in the given encoding and returns its
// content as a single-chunk text. A leading byte order mark for any
// Unicode form overrides enc and is stripped.
func DecodeBytes(data []byte, enc Encoding) (Text, error) {
	fallback := enc.textEncoding(false).NewDecoder()
	r := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(fallback))
	decoded, err := io.ReadAll(r)
	if err != nil {
		return Text{}, fmt.Errorf("decode %s: %w", enc, err)
	}
	return NewText(string(decoded)), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
