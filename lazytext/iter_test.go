package lazytext

import "testing"

func TestChunkIterator(t *testing.T) {
	txt := Build(FromString("ab").Append(Flush()).Append(FromString("cd")).Append(Flush()).Append(FromString("e")))

	var got []string
	for it := txt.Chunks(); it.Next(); {
		got = append(got, it.Chunk().String())
	}
	want := []string{"ab", "cd", "e"}
	if len(got) != len(want) {
		t.Fatalf("chunks = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chunks = %q, want %q", got, want)
		}
	}

	it := EmptyText().Chunks()
	if it.Next() {
		t.Error("empty text iterator should be exhausted")
	}
	if !it.Chunk().IsEmpty() {
		t.Error("exhausted iterator should report the empty chunk")
	}
}

func TestRuneIterator(t *testing.T) {
	type unit struct {
		r    rune
		size int
	}
	collect := func(txt Text) []unit {
		var out []unit
		for it := txt.Runes(); it.Next(); {
			out = append(out, unit{it.Rune(), it.Size()})
		}
		return out
	}

	tests := []struct {
		name string
		txt  Text
		want []unit
	}{
		{
			"mixed planes",
			NewText("aé😀b"),
			[]unit{{'a', 1}, {'é', 1}, {'😀', 2}, {'b', 1}},
		},
		{
			"pair split across chunks",
			FromChunks([]Chunk{
				ChunkFromUnits([]uint16{'A', 0xD83D}),
				ChunkFromUnits([]uint16{0xDE00, 'B'}),
			}),
			[]unit{{'A', 1}, {'😀', 2}, {'B', 1}},
		},
		{
			"unpaired low surrogate",
			FromChunks([]Chunk{ChunkFromUnits([]uint16{0xDC00, 'x'})}),
			[]unit{{'�', 1}, {'x', 1}},
		},
		{
			"trailing high surrogate",
			FromChunks([]Chunk{ChunkFromUnits([]uint16{'x', 0xD83D})}),
			[]unit{{'x', 1}, {'�', 1}},
		},
		{
			"high surrogate before non-low",
			FromChunks([]Chunk{ChunkFromUnits([]uint16{0xD83D, 'y'})}),
			[]unit{{'�', 1}, {'y', 1}},
		},
		{
			"empty", EmptyText(), nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(tt.txt)
			if len(got) != len(tt.want) {
				t.Fatalf("runes = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("runes = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRuneIteratorMatchesString(t *testing.T) {
	input := "Mixed: ascii, ünïcödé, 日本語, 🚀🌕, end."
	txt := NewText(input)

	var got []rune
	for it := txt.Runes(); it.Next(); {
		got = append(got, it.Rune())
	}
	if string(got) != input {
		t.Errorf("iterated %q, want %q", string(got), input)
	}
}
