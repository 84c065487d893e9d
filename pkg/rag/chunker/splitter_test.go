package chunker

import (
	"strings"
	"testing"
)

func TestSplitShortCircuit(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "whitespace only",
			text: "   \n\n  ",
			want: []string{},
		},
		{
			name: "fits in one chunk",
			text: "A short strategy memo.",
			want: []string{"A short strategy memo."},
		},
		{
			name: "trims surrounding whitespace",
			text: "  padded memo \n",
			want: []string{"padded memo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, cfg)
			if len(got) != len(tt.want) {
				t.Fatalf("Split() returned %d chunks, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitParagraphs(t *testing.T) {
	cfg := Config{ChunkSize: 50, ChunkOverlap: 10, Separators: []string{"\n\n", "\n", ". ", " "}}

	para1 := strings.Repeat("a", 40)
	para2 := strings.Repeat("b", 40)
	para3 := strings.Repeat("c", 40)
	text := para1 + "\n\n" + para2 + "\n\n" + para3

	chunks := Split(text, cfg)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != para1 {
		t.Errorf("chunk 0 = %q, want first paragraph", chunks[0])
	}
	if !strings.HasSuffix(chunks[1], para2) {
		t.Errorf("chunk 1 should end with second paragraph, got %q", chunks[1])
	}
}

func TestSplitOverlapSeedsNextChunk(t *testing.T) {
	cfg := Config{ChunkSize: 50, ChunkOverlap: 10, Separators: []string{"\n\n", "\n", ". ", " "}}

	para1 := strings.Repeat("x", 40)
	para2 := strings.Repeat("y", 40)
	chunks := Split(para1+"\n\n"+para2, cfg)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	// Second chunk starts with the 10-rune tail of the first.
	if !strings.HasPrefix(chunks[1], strings.Repeat("x", 10)) {
		t.Errorf("chunk 1 should start with overlap tail, got %q", chunks[1][:20])
	}
}

func TestSplitOversizedUnitEmittedWhole(t *testing.T) {
	cfg := Config{ChunkSize: 50, ChunkOverlap: 10, Separators: []string{"\n\n", "\n", ". ", " "}}

	// Single unbroken unit longer than ChunkSize must not be cut mid-unit.
	unit := strings.Repeat("z", 120)
	chunks := Split(unit, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 oversized chunk, got %d", len(chunks))
	}
	if chunks[0] != unit {
		t.Errorf("oversized unit was modified")
	}
}

func TestSplitSeparatorPriority(t *testing.T) {
	cfg := Config{ChunkSize: 30, ChunkOverlap: 0, Separators: []string{"\n\n", "\n", ". ", " "}}

	// Contains both newlines and sentences: paragraph separator wins.
	text := "first line here\n\nsecond. line here\n\nthird line ends"
	chunks := Split(text, cfg)

	for _, c := range chunks {
		if strings.Contains(c, "\n\n") {
			t.Errorf("chunk still contains paragraph separator: %q", c)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	text := strings.Repeat("The board reviewed the quarterly figures. ", 60)

	first := Split(text, cfg)
	for i := 0; i < 5; i++ {
		again := Split(text, cfg)
		if len(again) != len(first) {
			t.Fatalf("run %d: chunk count changed from %d to %d", i, len(first), len(again))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d: chunk %d differs", i, j)
			}
		}
	}
}
