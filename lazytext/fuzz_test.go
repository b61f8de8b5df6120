package lazytext

import (
	"strings"
	"testing"
	"unicode/utf16"
)

// FuzzBuildRoundTrip builds the fuzz input out of mixed primitives with
// flushes scattered through and checks that the built text decodes back
// to the input, regardless of how the content was sliced into pieces.
func FuzzBuildRoundTrip(f *testing.F) {
	f.Add("", uint8(0))
	f.Add("hello, world", uint8(1))
	f.Add("Abc😀", uint8(2))
	f.Add("invalid \xff\xfe bytes", uint8(3))
	f.Add(strings.Repeat("long input ", 64), uint8(4))
	f.Add("boundary ￿ and \U00010000", uint8(5))

	f.Fuzz(func(t *testing.T, s string, mode uint8) {
		rs := []rune(s)
		var b Builder
		for i, r := range rs {
			switch (int(mode) + i) % 4 {
			case 0:
				b = b.Append(FromRune(r))
			case 1:
				b = b.Append(FromString(string(r)))
			case 2:
				b = b.Append(FromChunk(ChunkFromRunes([]rune{r})))
			default:
				b = b.Append(FromRune(r)).Append(Flush())
			}
		}

		want := string(rs)
		built := Build(b)
		if got := built.String(); got != want {
			t.Fatalf("built %q, want %q", got, want)
		}
		if got, wantLen := built.Len(), len(utf16.Encode(rs)); got != wantLen {
			t.Fatalf("Len = %d, want %d", got, wantLen)
		}
		// Memoized cells replay identically.
		if got := built.String(); got != want {
			t.Fatalf("re-read %q, want %q", got, want)
		}
		if !built.Equal(NewText(want)) {
			t.Fatal("content equality with single-chunk form failed")
		}
		for it := built.Chunks(); it.Next(); {
			if it.Chunk().IsEmpty() {
				t.Fatal("built text contains an empty chunk")
			}
		}
	})
}

// FuzzEncodeDecode checks that every encoding round-trips arbitrary
// content, with and without a byte order mark.
func FuzzEncodeDecode(f *testing.F) {
	f.Add("", uint8(0))
	f.Add("plain", uint8(1))
	f.Add("bom mark test", uint8(5))
	f.Add("astral 😀 and bmp 世", uint8(2))

	f.Fuzz(func(t *testing.T, s string, pick uint8) {
		// Leading U+FEFF in content is indistinguishable from a byte
		// order mark on decode.
		s = strings.TrimLeft(s, "\uFEFF")

		enc := Encoding(pick % 3)
		withBOM := pick&4 != 0
		txt := NewText(s)

		var buf strings.Builder
		if _, err := txt.EncodeTo(&buf, enc, withBOM); err != nil {
			t.Fatalf("encode: %v", err)
		}
		decoded, err := DecodeBytes([]byte(buf.String()), enc)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got, want := decoded.String(), sanitize(s); got != want {
			t.Fatalf("round trip = %q, want %q", got, want)
		}
	})
}
