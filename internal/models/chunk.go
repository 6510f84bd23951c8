// ABOUTME: Chunk is a bounded passage of a Document used as the retrieval unit
// ABOUTME: Carries sequence index, rune offsets, and overlap with the previous chunk
package models

// Chunk is a substring of a Document. Offsets are rune positions into the
// source text. Overlap is the number of leading runes shared with the
// previous chunk in the sequence (0 for the first chunk).
type Chunk struct {
	DocumentID string `json:"document_id"`
	Seq        int    `json:"seq"`
	Text       string `json:"text"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Overlap    int    `json:"overlap"`
}
