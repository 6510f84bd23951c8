// ABOUTME: Retrieval result types shared by the index, assembler, and pipeline
// ABOUTME: Defines IndexEntry, ScoredPassage, and AssembledContext
package models

// IndexEntry is the (vector, passage, provenance) triple persisted in the
// vector index. Read-only after creation except for deletion or
// replacement through the owning Document's lifecycle.
type IndexEntry struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Seq        int       `json:"seq"`
	Text       string    `json:"text"`
	Vector     []float64 `json:"vector"`
}

// ScoredPassage is one ranked retrieval hit.
type ScoredPassage struct {
	DocumentID string  `json:"document_id"`
	Seq        int     `json:"seq"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// AssembledContext is the budget-bounded context block handed to the
// generator. Text never exceeds the budget it was assembled under.
// Sources lists the contributing document IDs in rank order, first
// occurrence wins.
type AssembledContext struct {
	Text     string          `json:"text"`
	Passages []ScoredPassage `json:"passages"`
	Sources  []string        `json:"sources"`
}

// Size returns the byte length of the assembled context text.
func (c AssembledContext) Size() int {
	return len(c.Text)
}

// Empty reports whether no passage made it into the context.
func (c AssembledContext) Empty() bool {
	return len(c.Passages) == 0
}
