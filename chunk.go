package md2speech

import (
	"fmt"
	"strings"
)

// chunkIndexWidth is the zero-pad width for chunk indices, wide enough
// that lexicographic and numeric ordering coincide for any realistic
// document (99999 chunks of 20 lines is a 2M-line document).
const chunkIndexWidth = 5

// Chunk is a bounded contiguous slice of a document's lines.
type Chunk struct {
	Index   int    // Position in the partition, starting at 0
	Content string // The chunk's lines, newline-joined
}

// Label returns the zero-padded index used to name chunk artifacts.
func (c Chunk) Label() string {
	return fmt.Sprintf("%0*d", chunkIndexWidth, c.Index)
}

// splitChunks partitions content into consecutive chunks of at most
// maxLines lines each. A document within the limit yields a single chunk
// identical to the document, so small inputs pay no splitting overhead.
// Joining the chunks in index order with a newline reconstructs the
// document exactly.
func splitChunks(content string, maxLines int) []Chunk {
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return []Chunk{{Index: 0, Content: content}}
	}

	chunks := make([]Chunk, 0, (len(lines)+maxLines-1)/maxLines)
	for start := 0; start < len(lines); start += maxLines {
		end := start + maxLines
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, Chunk{
			Index:   len(chunks),
			Content: strings.Join(lines[start:end], "\n"),
		})
	}
	return chunks
}
