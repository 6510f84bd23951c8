// ABOUTME: Tests for ingestion and retrieval orchestration
// ABOUTME: Uses a deterministic fake embedder and the in-memory index
package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/kb-standalone/internal/chunker"
	"github.com/harper/kb-standalone/internal/index/memory"
	"github.com/harper/kb-standalone/internal/models"
)

// fakeEmbedder produces a deterministic 4D vector from character counts,
// enough for cosine ranking in tests.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	var length, vowels, spaces, digits float64
	for _, r := range text {
		length++
		switch {
		case strings.ContainsRune("aeiouAEIOU", r):
			vowels++
		case r == ' ':
			spaces++
		case r >= '0' && r <= '9':
			digits++
		}
	}
	return []float64{length, vowels, spaces, digits}, nil
}

func (f fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// failEmbedder simulates an unreachable embedding service.
type failEmbedder struct{ err error }

func (f failEmbedder) Embed(context.Context, string) ([]float64, error) { return nil, f.err }
func (f failEmbedder) EmbedBatch(context.Context, []string) ([][]float64, error) {
	return nil, f.err
}

func newRetriever(t *testing.T, embedder Embedder) (*Retriever, *memory.Index) {
	t.Helper()
	ch, err := chunker.New(40, 10)
	if err != nil {
		t.Fatal(err)
	}
	ix := memory.New(4)
	return New(ch, embedder, ix), ix
}

func TestIngest_StoresChunks(t *testing.T) {
	r, ix := newRetriever(t, fakeEmbedder{})
	ctx := context.Background()

	doc := models.Document{ID: "notes.txt", Text: "The sky is blue. Water is wet. Grass is green and tall."}
	n, err := r.Ingest(ctx, doc)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if n == 0 {
		t.Fatal("Ingest() stored no chunks")
	}
	if ix.Len() != n {
		t.Errorf("index has %d entries, Ingest reported %d", ix.Len(), n)
	}
}

func TestIngest_Idempotent(t *testing.T) {
	r, ix := newRetriever(t, fakeEmbedder{})
	ctx := context.Background()

	doc := models.Document{ID: "doc", Text: "Alpha beta gamma delta. Epsilon zeta eta theta iota kappa."}
	first, err := r.Ingest(ctx, doc)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Ingest(ctx, doc)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("chunk counts differ across ingests: %d vs %d", first, second)
	}
	if ix.Len() != first {
		t.Errorf("index has %d entries after double ingest, want %d", ix.Len(), first)
	}

	docs, err := r.Documents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Chunks != first {
		t.Errorf("Documents() = %+v, want one document with %d chunks", docs, first)
	}
}

func TestIngest_ReplacesChangedDocument(t *testing.T) {
	r, ix := newRetriever(t, fakeEmbedder{})
	ctx := context.Background()

	if _, err := r.Ingest(ctx, models.Document{ID: "doc", Text: "Old content about storage engines and disks."}); err != nil {
		t.Fatal(err)
	}
	n, err := r.Ingest(ctx, models.Document{ID: "doc", Text: "New content."})
	if err != nil {
		t.Fatal(err)
	}

	if ix.Len() != n {
		t.Errorf("index has %d entries, want only the %d new chunks", ix.Len(), n)
	}

	results, err := r.Retrieve(ctx, "New content.", 5)
	if err != nil {
		t.Fatal(err)
	}
	for _, res := range results {
		if strings.Contains(res.Text, "Old content") {
			t.Errorf("stale chunk survived re-ingestion: %+v", res)
		}
	}
}

func TestIngest_EmptyDocument(t *testing.T) {
	r, ix := newRetriever(t, fakeEmbedder{})

	n, err := r.Ingest(context.Background(), models.Document{ID: "empty", Text: "   "})
	if err != nil {
		t.Fatalf("Ingest() of empty document error = %v", err)
	}
	if n != 0 || ix.Len() != 0 {
		t.Errorf("empty document stored %d chunks", ix.Len())
	}
}

func TestIngest_RequiresID(t *testing.T) {
	r, _ := newRetriever(t, fakeEmbedder{})
	if _, err := r.Ingest(context.Background(), models.Document{Text: "no id"}); err == nil {
		t.Error("expected error for missing document ID")
	}
}

func TestIngest_EmbeddingFailureLeavesNoPartialState(t *testing.T) {
	wantErr := errors.New("model service unavailable")
	r, ix := newRetriever(t, failEmbedder{err: wantErr})

	_, err := r.Ingest(context.Background(), models.Document{ID: "doc", Text: "Some content that needs embedding."})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Ingest() error = %v, want wrapped embedder error", err)
	}
	if ix.Len() != 0 {
		t.Errorf("index has %d entries after failed ingest, want 0", ix.Len())
	}
}

func TestRetrieve_EmptyIndex(t *testing.T) {
	r, _ := newRetriever(t, fakeEmbedder{})

	results, err := r.Retrieve(context.Background(), "anything?", 3)
	if err != nil {
		t.Fatalf("Retrieve() on empty index error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Retrieve() = %d results, want 0", len(results))
	}
}

func TestRetrieve_FailsFastOnEmbedError(t *testing.T) {
	wantErr := errors.New("model service unavailable")
	r, ix := newRetriever(t, fakeEmbedder{})
	ctx := context.Background()

	if _, err := r.Ingest(ctx, models.Document{ID: "doc", Text: "Indexed content lives here."}); err != nil {
		t.Fatal(err)
	}
	_ = ix // index populated; retrieval must still fail without touching it

	broken := New(mustChunker(t), failEmbedder{err: wantErr}, ix)
	results, err := broken.Retrieve(ctx, "question", 3)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Retrieve() error = %v, want embedder error", err)
	}
	if results != nil {
		t.Errorf("Retrieve() returned results %v alongside error", results)
	}
}

func TestRetrieve_RanksMostSimilarFirst(t *testing.T) {
	r, _ := newRetriever(t, fakeEmbedder{})
	ctx := context.Background()

	if _, err := r.Ingest(ctx, models.Document{ID: "numbers", Text: "123 456 789 000 111"}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Ingest(ctx, models.Document{ID: "words", Text: "aeiou aeiou aeiou ae"}); err != nil {
		t.Fatal(err)
	}

	results, err := r.Retrieve(ctx, "987 654 321 222 333", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 || results[0].DocumentID != "numbers" {
		t.Errorf("top result = %+v, want the digit-heavy document", results)
	}
}

func TestRemove(t *testing.T) {
	r, ix := newRetriever(t, fakeEmbedder{})
	ctx := context.Background()

	if _, err := r.Ingest(ctx, models.Document{ID: "doc", Text: "Content to remove later."}); err != nil {
		t.Fatal(err)
	}
	if err := r.Remove(ctx, "doc"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if ix.Len() != 0 {
		t.Errorf("index has %d entries after Remove, want 0", ix.Len())
	}
}

func mustChunker(t *testing.T) *chunker.Chunker {
	t.Helper()
	ch, err := chunker.New(40, 10)
	if err != nil {
		t.Fatal(err)
	}
	return ch
}
