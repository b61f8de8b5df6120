package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/juju/errors"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/tidwall/sjson"

	"github.com/dshills/loom/internal/manifest"
	"github.com/dshills/loom/internal/sink"
	"github.com/dshills/loom/lazytext"
)

// PieceStat describes one assembled piece.
type PieceStat struct {
	// Index is the 1-based piece position after glob expansion.
	Index int

	// Kind is the manifest kind name (file, literal, sep, script).
	Kind string

	// Source is the path or a short preview of inline text.
	Source string

	// Repeat is how many times the piece was emitted.
	Repeat int

	// Units is the piece's UTF-16 code unit count, before repetition.
	Units int
}

// Report is the outcome of one build.
type Report struct {
	Pieces  []PieceStat
	Summary lazytext.Summary
	Chunks  int
	Result  sink.Result
	Elapsed time.Duration

	// Sources are the files the build depends on, for watch mode.
	Sources []string
}

// RenderStats writes the report in the given format.
func RenderStats(w io.Writer, rep *Report, format string) error {
	switch format {
	case "table":
		return renderTable(w, rep)
	case "json":
		return renderJSON(w, rep)
	default:
		return errors.Errorf("unknown stats format %q", format)
	}
}

// renderTable writes an aligned per-piece table followed by totals.
// Column widths follow display width, so wide characters in paths and
// previews keep the table aligned.
func renderTable(w io.Writer, rep *Report) error {
	kindW := runewidth.StringWidth("KIND")
	srcW := runewidth.StringWidth("SOURCE")
	for _, p := range rep.Pieces {
		if n := runewidth.StringWidth(p.Kind); n > kindW {
			kindW = n
		}
		if n := runewidth.StringWidth(p.Source); n > srcW {
			srcW = n
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  # %s %s %6s %12s\n",
		runewidth.FillRight("KIND", kindW),
		runewidth.FillRight("SOURCE", srcW),
		"REPEAT", "UNITS")
	for _, p := range rep.Pieces {
		fmt.Fprintf(&b, "%3d %s %s %6d %12s\n",
			p.Index,
			runewidth.FillRight(p.Kind, kindW),
			runewidth.FillRight(p.Source, srcW),
			p.Repeat,
			humanize.Comma(int64(p.Units)))
	}

	s := rep.Summary
	fmt.Fprintf(&b, "\ncontent  %s units, %s runes, %s graphemes, %s lines, %d chunks\n",
		humanize.Comma(int64(s.Units)),
		humanize.Comma(int64(s.Runes)),
		humanize.Comma(int64(s.Graphemes)),
		humanize.Comma(int64(s.Lines)),
		rep.Chunks)

	out := fmt.Sprintf("output   %s encoded", humanize.IBytes(uint64(rep.Result.Encoded)))
	if rep.Result.Written != rep.Result.Encoded {
		out += fmt.Sprintf(", %s written", humanize.IBytes(uint64(rep.Result.Written)))
	}
	if rep.Result.HasDigest {
		out += fmt.Sprintf(", digest %016x", rep.Result.Digest)
	}
	fmt.Fprintf(&b, "%s\nelapsed  %s\n", out, rep.Elapsed.Round(time.Millisecond))

	_, err := io.WriteString(w, b.String())
	return errors.Trace(err)
}

// renderJSON writes the report as a single JSON document.
func renderJSON(w io.Writer, rep *Report) error {
	out := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}

	for i, p := range rep.Pieces {
		base := fmt.Sprintf("pieces.%d.", i)
		set(base+"index", p.Index)
		set(base+"kind", p.Kind)
		set(base+"source", p.Source)
		set(base+"repeat", p.Repeat)
		set(base+"units", p.Units)
	}

	set("content.units", rep.Summary.Units)
	set("content.bytes", rep.Summary.Bytes)
	set("content.runes", rep.Summary.Runes)
	set("content.graphemes", rep.Summary.Graphemes)
	set("content.lines", rep.Summary.Lines)
	set("content.chunks", rep.Chunks)

	set("output.encoded", rep.Result.Encoded)
	set("output.written", rep.Result.Written)
	if rep.Result.HasDigest {
		set("output.digest", fmt.Sprintf("%016x", rep.Result.Digest))
	}
	set("elapsed_ms", rep.Elapsed.Milliseconds())

	if err != nil {
		return errors.Annotatef(err, "encoding stats")
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return errors.Trace(err)
}

// pieceSource renders a piece's origin for display: the path for file
// and script pieces, a quoted preview for inline text.
func pieceSource(p manifest.Piece) string {
	switch p.Kind {
	case manifest.KindLiteral, manifest.KindSep:
		return strconv.Quote(runewidth.Truncate(p.Value, 24, "…"))
	default:
		return p.Value
	}
}
