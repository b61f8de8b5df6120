package lazytext

import "testing"

func TestSummary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Summary
	}{
		{
			"empty", "",
			Summary{},
		},
		{
			"plain lines", "héllo\nworld\n",
			Summary{Units: 12, Bytes: 13, Runes: 12, Graphemes: 12, Lines: 2},
		},
		{
			"combining mark", "é",
			Summary{Units: 2, Bytes: 3, Runes: 2, Graphemes: 1, Lines: 0},
		},
		{
			"astral", "😀😀",
			Summary{Units: 4, Bytes: 8, Runes: 2, Graphemes: 2, Lines: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewText(tt.input).Summary(); got != tt.want {
				t.Errorf("Summary = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummaryAcrossChunkBoundary(t *testing.T) {
	// A grapheme cluster split by a chunk boundary counts once.
	b := FromRune('e').Append(Flush()).Append(FromRune(0x0301))
	txt := Build(b)
	if got := len(chunkStrings(txt)); got != 2 {
		t.Fatalf("expected 2 chunks, got %d", got)
	}
	sum := txt.Summary()
	if sum.Graphemes != 1 {
		t.Errorf("Graphemes = %d, want 1", sum.Graphemes)
	}
	if sum.Units != 2 || sum.Runes != 2 {
		t.Errorf("Summary = %+v", sum)
	}
}

func TestSummaryAdd(t *testing.T) {
	a := NewText("one\n").Summary()
	b := NewText("two\n").Summary()
	got := a.Add(b)
	want := NewText("one\ntwo\n").Summary()
	if got != want {
		t.Errorf("Add = %+v, want %+v", got, want)
	}
	if got := (Summary{}).Add(a); got != a {
		t.Errorf("zero Add = %+v, want %+v", got, a)
	}
}
