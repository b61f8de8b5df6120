package lazytext

import (
	"testing"
	"testing/quick"
)

func TestNewChunk(t *testing.T) {
	tests := []struct {
		name  string
		input string
		units []uint16
	}{
		{"empty", "", nil},
		{"ascii", "Go", []uint16{0x47, 0x6F}},
		{"bmp", "é世", []uint16{0xE9, 0x4E16}},
		{"astral pair", "😀", []uint16{0xD83D, 0xDE00}},
		{"mixed", "A😀", []uint16{0x41, 0xD83D, 0xDE00}},
		{"invalid utf8", "a\xffb", []uint16{0x61, 0xFFFD, 0x62}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := NewChunk(tt.input)
			if got := ch.Len(); got != len(tt.units) {
				t.Fatalf("Len = %d, want %d", got, len(tt.units))
			}
			for i, want := range tt.units {
				if got := ch.Unit(i); got != want {
					t.Errorf("Unit(%d) = %#x, want %#x", i, got, want)
				}
			}
			if ch.IsEmpty() != (len(tt.units) == 0) {
				t.Errorf("IsEmpty = %v", ch.IsEmpty())
			}
		})
	}
}

func TestChunkStringRoundTrip(t *testing.T) {
	roundTrip := func(s string) bool {
		return NewChunk(s).String() == sanitize(s)
	}
	if err := quick.Check(roundTrip, nil); err != nil {
		t.Error(err)
	}
}

func TestChunkFromUnitsCopies(t *testing.T) {
	src := []uint16{'a', 'b', 'c'}
	ch := ChunkFromUnits(src)
	src[0] = 'z'
	if got := ch.String(); got != "abc" {
		t.Errorf("chunk observed caller mutation: %q", got)
	}

	out := ch.Units()
	out[0] = 'z'
	if got := ch.String(); got != "abc" {
		t.Errorf("chunk observed result mutation: %q", got)
	}
}

func TestChunkFromRunes(t *testing.T) {
	ch := ChunkFromRunes([]rune{'G', 'ø', 0x1F680})
	if got := ch.String(); got != "Gø🚀" {
		t.Errorf("String = %q", got)
	}
	if got := ch.Len(); got != 4 {
		t.Errorf("Len = %d, want 4", got)
	}
}

func TestChunkEqual(t *testing.T) {
	a := NewChunk("payload")
	b := ChunkFromUnits(a.Units())
	if !a.Equal(b) {
		t.Error("chunks with identical units should be equal")
	}
	if a.Equal(NewChunk("payloae")) {
		t.Error("differing chunks reported equal")
	}
	if a.Equal(NewChunk("payloa")) {
		t.Error("prefix chunk reported equal")
	}
	if !(Chunk{}).Equal(Chunk{}) {
		t.Error("empty chunks should be equal")
	}
}

func TestChunkAppendUnits(t *testing.T) {
	buf := []uint16{'x'}
	buf = NewChunk("yz").AppendUnits(buf)
	if len(buf) != 3 || buf[0] != 'x' || buf[1] != 'y' || buf[2] != 'z' {
		t.Errorf("AppendUnits = %v", buf)
	}
}

func TestChunkSummary(t *testing.T) {
	sum := NewChunk("hé\n😀").Summary()
	if sum.Units != 5 {
		t.Errorf("Units = %d, want 5", sum.Units)
	}
	if sum.Runes != 4 {
		t.Errorf("Runes = %d, want 4", sum.Runes)
	}
	if sum.Bytes != 8 {
		t.Errorf("Bytes = %d, want 8", sum.Bytes)
	}
	if sum.Lines != 1 {
		t.Errorf("Lines = %d, want 1", sum.Lines)
	}
	if sum.Graphemes != 4 {
		t.Errorf("Graphemes = %d, want 4", sum.Graphemes)
	}
}
