// ABOUTME: Chunker splits document text into overlapping passages for embedding
// ABOUTME: Prefers sentence and paragraph breaks before falling back to a hard cut
package chunker

import (
	"fmt"
	"strings"

	"github.com/harper/kb-standalone/internal/models"
)

// Chunker splits text into passages of at most maxSize runes, with each
// passage repeating the trailing overlap runes of its predecessor so that
// context survives the split point. Splitting is deterministic: the same
// input always yields the same chunks.
type Chunker struct {
	maxSize int
	overlap int
}

// New creates a Chunker. overlap must be smaller than maxSize, otherwise
// the split could never advance.
func New(maxSize, overlap int) (*Chunker, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", maxSize)
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", maxSize, overlap)
	}
	return &Chunker{maxSize: maxSize, overlap: overlap}, nil
}

// Split chunks text for the given document. Empty or whitespace-only text
// yields no chunks; text within maxSize yields a single chunk equal to
// the input. Offsets are rune positions so multi-byte text never splits
// mid-character.
func (c *Chunker) Split(documentID, text string) []models.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.maxSize {
		return []models.Chunk{{
			DocumentID: documentID,
			Seq:        0,
			Text:       text,
			Start:      0,
			End:        len(runes),
		}}
	}

	var chunks []models.Chunk
	start := 0
	for start < len(runes) {
		end := start + c.maxSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.cut(runes, start, end)
		}

		overlap := 0
		if n := len(chunks); n > 0 {
			overlap = chunks[n-1].End - start
		}

		chunks = append(chunks, models.Chunk{
			DocumentID: documentID,
			Seq:        len(chunks),
			Text:       string(runes[start:end]),
			Start:      start,
			End:        end,
			Overlap:    overlap,
		})

		if end == len(runes) {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Overlap would re-emit the whole chunk; skip it to guarantee progress.
			next = end
		}
		start = next
	}

	return chunks
}

// cut returns the position to end the current chunk at, searching
// backwards from the hard limit for a natural break within a tolerance
// window. Paragraph/line breaks win over sentence ends, sentence ends
// over plain whitespace; with no break in the window the hard limit
// stands.
func (c *Chunker) cut(runes []rune, start, limit int) int {
	window := c.maxSize / 4
	if window < 1 {
		window = 1
	}
	lo := limit - window
	if lo < start+1 {
		lo = start + 1
	}

	for p := limit; p > lo; p-- {
		if runes[p-1] == '\n' {
			return p
		}
	}
	for p := limit; p > lo; p-- {
		if isSentenceEnd(runes[p-1]) && (p == len(runes) || isSpace(runes[p])) {
			return p
		}
	}
	for p := limit; p > lo; p-- {
		if isSpace(runes[p-1]) {
			return p
		}
	}
	return limit
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
