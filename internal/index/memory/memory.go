// ABOUTME: In-memory vector index for tests and ephemeral runs
// ABOUTME: Same contract as the SQLite store, nothing survives the process
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/harper/kb-standalone/internal/index"
	"github.com/harper/kb-standalone/internal/models"
)

// Index keeps entries in a map guarded by a RWMutex. Queries take the
// read lock, so concurrent readers never observe a half-written entry.
type Index struct {
	mu        sync.RWMutex
	entries   map[string]models.IndexEntry
	order     map[string]int // entry ID -> insertion counter, for stable ties
	nextOrder int
	dimension int
}

var _ index.Index = (*Index)(nil)

// New creates an empty in-memory index. dimension 0 disables the
// dimensionality check.
func New(dimension int) *Index {
	return &Index{
		entries:   make(map[string]models.IndexEntry),
		order:     make(map[string]int),
		dimension: dimension,
	}
}

func (ix *Index) Upsert(_ context.Context, entry models.IndexEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("entry ID is required")
	}
	if ix.dimension > 0 && len(entry.Vector) != ix.dimension {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", ix.dimension, len(entry.Vector))
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.entries[entry.ID]; !exists {
		ix.order[entry.ID] = ix.nextOrder
		ix.nextOrder++
	}
	ix.entries[entry.ID] = entry
	return nil
}

func (ix *Index) DeleteByDocument(_ context.Context, documentID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for id, entry := range ix.entries {
		if entry.DocumentID == documentID {
			delete(ix.entries, id)
			delete(ix.order, id)
		}
	}
	return nil
}

func (ix *Index) Query(_ context.Context, vector []float64, k int) ([]models.ScoredPassage, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	type scored struct {
		passage models.ScoredPassage
		order   int
	}

	results := make([]scored, 0, len(ix.entries))
	for id, entry := range ix.entries {
		if ix.dimension > 0 && len(entry.Vector) != ix.dimension {
			return nil, fmt.Errorf("%w: entry %s has %d dimensions, index expects %d",
				index.ErrIndexCorruption, id, len(entry.Vector), ix.dimension)
		}
		results = append(results, scored{
			passage: models.ScoredPassage{
				DocumentID: entry.DocumentID,
				Seq:        entry.Seq,
				Text:       entry.Text,
				Score:      index.CosineSimilarity(vector, entry.Vector),
			},
			order: ix.order[id],
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].passage.Score != results[j].passage.Score {
			return results[i].passage.Score > results[j].passage.Score
		}
		return results[i].order < results[j].order
	})

	if len(results) > k {
		results = results[:k]
	}

	passages := make([]models.ScoredPassage, len(results))
	for i, r := range results {
		passages[i] = r.passage
	}
	return passages, nil
}

func (ix *Index) Documents(_ context.Context) ([]index.DocumentInfo, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	counts := make(map[string]int)
	first := make(map[string]int)
	for id, entry := range ix.entries {
		counts[entry.DocumentID]++
		if pos, ok := first[entry.DocumentID]; !ok || ix.order[id] < pos {
			first[entry.DocumentID] = ix.order[id]
		}
	}

	docs := make([]index.DocumentInfo, 0, len(counts))
	for docID, n := range counts {
		docs = append(docs, index.DocumentInfo{ID: docID, Chunks: n})
	}
	sort.Slice(docs, func(i, j int) bool {
		return first[docs[i].ID] < first[docs[j].ID]
	})
	return docs, nil
}

// Len returns the number of stored entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

func (ix *Index) Close() error {
	return nil
}
