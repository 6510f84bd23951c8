// ABOUTME: Assembles retrieved passages into a budget-bounded context block
// ABOUTME: Greedy by rank, skips oversized passages, dedups overlapping chunks
package assembler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harper/kb-standalone/internal/models"
)

// ErrBudgetExceeded means not even one passage fits the budget. The
// returned context is empty and usable; callers treat this as a warning,
// not a failure.
var ErrBudgetExceeded = errors.New("context budget too small for any passage")

const blockSeparator = "\n\n"

// Assemble packs ranked passages into a context block of at most budget
// bytes, counting provenance markers and separators. Passages are taken
// in rank order; one that does not fit is skipped, never truncated, and
// lower-ranked passages may still be included after it. Near-identical
// passages from adjacent chunks of the same document are deduplicated so
// chunk overlap does not waste budget.
func Assemble(results []models.ScoredPassage, budget int) (models.AssembledContext, error) {
	var (
		included []models.ScoredPassage
		blocks   []string
		size     int
	)

	for _, p := range results {
		if isOverlapDuplicate(p, included) {
			continue
		}

		block := renderPassage(p)
		cost := len(block)
		if len(blocks) > 0 {
			cost += len(blockSeparator)
		}
		if size+cost > budget {
			continue
		}

		included = append(included, p)
		blocks = append(blocks, block)
		size += cost
	}

	ctx := models.AssembledContext{
		Text:     strings.Join(blocks, blockSeparator),
		Passages: included,
		Sources:  sourceIDs(included),
	}

	if len(results) > 0 && len(included) == 0 {
		return ctx, ErrBudgetExceeded
	}
	return ctx, nil
}

func renderPassage(p models.ScoredPassage) string {
	return fmt.Sprintf("[source %s#%d]\n%s", p.DocumentID, p.Seq, p.Text)
}

// isOverlapDuplicate reports whether p repeats an already included
// passage from a neighboring chunk of the same document. The chunker's
// overlap makes boundary chunks share text, so near-identical neighbors
// add nothing.
func isOverlapDuplicate(p models.ScoredPassage, included []models.ScoredPassage) bool {
	for _, q := range included {
		if p.DocumentID != q.DocumentID {
			continue
		}
		if diff := p.Seq - q.Seq; diff > 1 || diff < -1 {
			continue
		}
		a := strings.TrimSpace(p.Text)
		b := strings.TrimSpace(q.Text)
		if strings.Contains(a, b) || strings.Contains(b, a) {
			return true
		}
	}
	return false
}

// sourceIDs returns the unique document IDs in rank order.
func sourceIDs(passages []models.ScoredPassage) []string {
	var sources []string
	seen := make(map[string]bool)
	for _, p := range passages {
		if !seen[p.DocumentID] {
			seen[p.DocumentID] = true
			sources = append(sources, p.DocumentID)
		}
	}
	return sources
}
