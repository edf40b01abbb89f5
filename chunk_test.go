package md2speech

import (
	"fmt"
	"strings"
	"testing"
)

// numberedLines builds "line 1\n...\nline n".
func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return strings.Join(lines, "\n")
}

func TestSplitChunksSmallDocument(t *testing.T) {
	tests := []struct {
		name     string
		lines    int
		maxLines int
	}{
		{name: "well under limit", lines: 5, maxLines: 20},
		{name: "exactly at limit", lines: 20, maxLines: 20},
		{name: "single line", lines: 1, maxLines: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := numberedLines(tt.lines)
			chunks := splitChunks(content, tt.maxLines)

			if len(chunks) != 1 {
				t.Fatalf("splitChunks() returned %d chunks, want 1", len(chunks))
			}
			if chunks[0].Index != 0 {
				t.Errorf("chunk index = %d, want 0", chunks[0].Index)
			}
			if chunks[0].Content != content {
				t.Errorf("single chunk content differs from document")
			}
		})
	}
}

func TestSplitChunksPartitioning(t *testing.T) {
	tests := []struct {
		name      string
		lines     int
		maxLines  int
		wantSizes []int
	}{
		{name: "one over the limit", lines: 21, maxLines: 20, wantSizes: []int{20, 1}},
		{name: "45 lines in 20s", lines: 45, maxLines: 20, wantSizes: []int{20, 20, 5}},
		{name: "exact multiple", lines: 40, maxLines: 20, wantSizes: []int{20, 20}},
		{name: "one line per chunk", lines: 3, maxLines: 1, wantSizes: []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := numberedLines(tt.lines)
			chunks := splitChunks(content, tt.maxLines)

			if len(chunks) != len(tt.wantSizes) {
				t.Fatalf("splitChunks() returned %d chunks, want %d", len(chunks), len(tt.wantSizes))
			}
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d has index %d", i, c.Index)
				}
				got := len(strings.Split(c.Content, "\n"))
				if got != tt.wantSizes[i] {
					t.Errorf("chunk %d has %d lines, want %d", i, got, tt.wantSizes[i])
				}
			}
		})
	}
}

func TestSplitChunksReconstruction(t *testing.T) {
	content := numberedLines(45)
	chunks := splitChunks(content, 20)

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	if rejoined := strings.Join(parts, "\n"); rejoined != content {
		t.Errorf("joining chunks does not reconstruct the document")
	}
}

func TestChunkLabel(t *testing.T) {
	tests := []struct {
		index    int
		expected string
	}{
		{index: 0, expected: "00000"},
		{index: 7, expected: "00007"},
		{index: 123, expected: "00123"},
		{index: 99999, expected: "99999"},
	}

	for _, tt := range tests {
		c := Chunk{Index: tt.index}
		if got := c.Label(); got != tt.expected {
			t.Errorf("Label() for index %d = %q, want %q", tt.index, got, tt.expected)
		}
	}
}
