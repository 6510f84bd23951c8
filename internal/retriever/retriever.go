// ABOUTME: Retriever orchestrates chunking, embedding, and the vector index
// ABOUTME: Ingestion is delete-then-insert so retrying a failed ingest is safe
package retriever

import (
	"context"
	"fmt"

	"github.com/harper/kb-standalone/internal/chunker"
	"github.com/harper/kb-standalone/internal/index"
	"github.com/harper/kb-standalone/internal/models"
)

// Embedder is the embedding-model capability. EmbedBatch must return one
// vector per input, in input order, each identical to what Embed on that
// element would produce.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Retriever ingests documents into the vector index and answers top-k
// similarity queries.
type Retriever struct {
	chunker  *chunker.Chunker
	embedder Embedder
	index    index.Index
}

// New wires a Retriever from its collaborators.
func New(ch *chunker.Chunker, embedder Embedder, ix index.Index) *Retriever {
	return &Retriever{chunker: ch, embedder: embedder, index: ix}
}

// Ingest indexes the document and returns the number of chunks stored.
// Prior entries for the same document ID are deleted first, so ingestion
// is idempotent and a partially failed ingest is repaired by re-running
// it. Embedding failures abort before any upsert, leaving the document
// simply absent rather than half-indexed.
func (r *Retriever) Ingest(ctx context.Context, doc models.Document) (int, error) {
	if doc.ID == "" {
		return 0, fmt.Errorf("document ID is required")
	}

	if err := r.index.DeleteByDocument(ctx, doc.ID); err != nil {
		return 0, fmt.Errorf("ingest %q: clearing prior entries: %w", doc.ID, err)
	}

	chunks := r.chunker.Split(doc.ID, doc.Text)
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	vectors, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("ingest %q: embedding %d chunks: %w", doc.ID, len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("ingest %q: got %d vectors for %d chunks", doc.ID, len(vectors), len(chunks))
	}

	for i, ch := range chunks {
		entry := models.IndexEntry{
			ID:         entryID(doc.ID, ch.Seq),
			DocumentID: doc.ID,
			Seq:        ch.Seq,
			Text:       ch.Text,
			Vector:     vectors[i],
		}
		if err := r.index.Upsert(ctx, entry); err != nil {
			return 0, fmt.Errorf("ingest %q: storing chunk %d: %w", doc.ID, ch.Seq, err)
		}
	}

	return len(chunks), nil
}

// Remove deletes every indexed chunk of the document.
func (r *Retriever) Remove(ctx context.Context, documentID string) error {
	if err := r.index.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("removing %q: %w", documentID, err)
	}
	return nil
}

// EmbedQuery converts a question into a query vector.
func (r *Retriever) EmbedQuery(ctx context.Context, question string) ([]float64, error) {
	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	return vector, nil
}

// Search runs a top-k similarity query with an already embedded vector.
func (r *Retriever) Search(ctx context.Context, vector []float64, k int) ([]models.ScoredPassage, error) {
	results, err := r.index.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	return results, nil
}

// Retrieve embeds the question and returns the k most similar passages.
// If embedding fails the retrieval fails fast; no stale results are
// returned.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]models.ScoredPassage, error) {
	vector, err := r.EmbedQuery(ctx, question)
	if err != nil {
		return nil, err
	}
	return r.Search(ctx, vector, k)
}

// Documents lists indexed documents.
func (r *Retriever) Documents(ctx context.Context) ([]index.DocumentInfo, error) {
	return r.index.Documents(ctx)
}

func entryID(documentID string, seq int) string {
	return fmt.Sprintf("%s#%04d", documentID, seq)
}
