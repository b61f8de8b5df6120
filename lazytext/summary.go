package lazytext

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Summary holds aggregate metrics for text content. Counts follow the
// decoded form: unpaired surrogates contribute one replacement rune.
type Summary struct {
	// Units is the UTF-16 code unit count.
	Units int

	// Bytes is the UTF-8 byte count of the decoded content.
	Bytes int

	// Runes is the decoded rune count.
	Runes int

	// Graphemes is the number of grapheme clusters (user-perceived
	// characters), per Unicode segmentation rules.
	Graphemes int

	// Lines is the number of newline characters.
	Lines int
}

// Add combines two summaries. Grapheme counts are additive only across
// a boundary that does not split a cluster; Text.Summary computes over
// the whole content for that reason, and Add serves callers merging
// summaries of independently meaningful sections.
func (s Summary) Add(other Summary) Summary {
	return Summary{
		Units:     s.Units + other.Units,
		Bytes:     s.Bytes + other.Bytes,
		Runes:     s.Runes + other.Runes,
		Graphemes: s.Graphemes + other.Graphemes,
		Lines:     s.Lines + other.Lines,
	}
}

// Summary computes aggregate metrics for the whole text, forcing it.
// Grapheme clusters spanning chunk boundaries are counted once.
func (t Text) Summary() Summary {
	var sb strings.Builder
	units := 0
	for it := t.Chunks(); it.Next(); {
		units += it.Chunk().Len()
		sb.WriteString(it.Chunk().String())
	}
	return summarize(sb.String(), units)
}

func summarize(s string, units int) Summary {
	return Summary{
		Units:     units,
		Bytes:     len(s),
		Runes:     utf8.RuneCountInString(s),
		Graphemes: uniseg.GraphemeClusterCount(s),
		Lines:     strings.Count(s, "\n"),
	}
}
