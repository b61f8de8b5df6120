package lazytext

import (
	"testing"
	"testing/quick"
)

func TestTextBasics(t *testing.T) {
	if !EmptyText().IsEmpty() {
		t.Error("EmptyText should be empty")
	}
	var zero Text
	if !zero.IsEmpty() {
		t.Error("zero Text should be empty")
	}
	if !NewText("").IsEmpty() {
		t.Error("NewText(\"\") should be empty")
	}

	txt := NewText("héllo")
	if txt.IsEmpty() {
		t.Error("non-empty text reported empty")
	}
	if got := txt.String(); got != "héllo" {
		t.Errorf("String = %q", got)
	}
	if got := txt.Len(); got != 5 {
		t.Errorf("Len = %d, want 5", got)
	}
}

func TestFromChunksSkipsEmpty(t *testing.T) {
	txt := FromChunks([]Chunk{{}, NewChunk("a"), {}, NewChunk("b"), {}})
	got := chunkStrings(txt)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("chunks = %q, want [a b]", got)
	}
	if !FromChunks([]Chunk{{}, {}}).IsEmpty() {
		t.Error("all-empty chunk list should give the empty text")
	}
}

func TestTextAppend(t *testing.T) {
	a := NewText("left ")
	b := NewText("right")

	if got := a.Append(b).String(); got != "left right" {
		t.Errorf("Append = %q", got)
	}
	if got := EmptyText().Append(b).String(); got != "right" {
		t.Errorf("empty.Append = %q", got)
	}
	if got := a.Append(EmptyText()).String(); got != "left " {
		t.Errorf("Append(empty) = %q", got)
	}
}

func TestTextAppendIsLazy(t *testing.T) {
	executed := false
	tail := Build(FromString("head").Append(Flush()).Append(writeN(1, func(dst []uint16) {
		executed = true
		dst[0] = '!'
	})))

	joined := NewText("pre ").Append(tail)
	ch, rest, ok := joined.Uncons()
	if !ok || ch.String() != "pre " {
		t.Fatalf("first chunk = %q", ch.String())
	}
	ch, rest, ok = rest.Uncons()
	if !ok || ch.String() != "head" {
		t.Fatalf("second chunk = %q", ch.String())
	}
	if executed {
		t.Error("appended text was forced past the consumed chunk")
	}
	ch, _, ok = rest.Uncons()
	if !ok || ch.String() != "!" {
		t.Fatalf("third chunk = %q", ch.String())
	}
	if !executed {
		t.Error("demand should have reached the suspended write")
	}
}

func TestTextForce(t *testing.T) {
	ran := 0
	txt := Build(Concat(
		FromString("a"), Flush(),
		writeN(1, func(dst []uint16) { ran++; dst[0] = 'b' }),
	))

	forced := txt.Force()
	if ran != 1 {
		t.Fatalf("force ran suspended write %d times, want 1", ran)
	}
	// Force returns the same text, fully materialized; re-reading it
	// must not re-run anything.
	if got := forced.String(); got != "ab" {
		t.Errorf("forced content = %q", got)
	}
	if got := txt.String(); got != "ab" {
		t.Errorf("original content = %q", got)
	}
	if ran != 1 {
		t.Errorf("re-reads ran the write again: %d", ran)
	}
}

func TestTextEqual(t *testing.T) {
	// Equality is content equality; chunk boundaries do not matter.
	split := Build(FromString("ab").Append(Flush()).Append(FromString("cd")))
	whole := NewText("abcd")
	if !split.Equal(whole) || !whole.Equal(split) {
		t.Error("texts with identical content but different chunking should be equal")
	}

	tests := []struct {
		name string
		a, b Text
		want bool
	}{
		{"both empty", EmptyText(), EmptyText(), true},
		{"empty vs non-empty", EmptyText(), NewText("x"), false},
		{"same", NewText("same"), NewText("same"), true},
		{"differs late", NewText("abcx"), NewText("abcy"), false},
		{"prefix", NewText("abc"), NewText("abcd"), false},
		{"astral", NewText("a😀b"), NewText("a😀b"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextEqualStopsAtDifference(t *testing.T) {
	executed := false
	long := Build(FromString("xy").Append(Flush()).Append(writeN(1, func(dst []uint16) {
		executed = true
		dst[0] = 'z'
	})))

	if long.Equal(NewText("ab")) {
		t.Error("texts differ at the first unit")
	}
	if executed {
		t.Error("comparison forced past the first difference")
	}
}

func TestTextUnitsAndToChunk(t *testing.T) {
	txt := Build(FromString("a").Append(Flush()).Append(FromRune('😀')))

	want := []uint16{'a', 0xD83D, 0xDE00}
	got := txt.Units()
	if len(got) != len(want) {
		t.Fatalf("Units = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Units = %v, want %v", got, want)
		}
	}

	ch := txt.ToChunk()
	if ch.Len() != 3 || ch.String() != "a😀" {
		t.Errorf("ToChunk = %q len %d", ch.String(), ch.Len())
	}
	if !EmptyText().ToChunk().IsEmpty() {
		t.Error("ToChunk of empty text should be the empty chunk")
	}
}

func TestBuildFromTextRoundTrip(t *testing.T) {
	roundTrip := func(s string) bool {
		src := NewText(s)
		return Build(FromText(src)).Equal(src)
	}
	if err := quick.Check(roundTrip, nil); err != nil {
		t.Error(err)
	}
}
