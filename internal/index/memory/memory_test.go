// ABOUTME: Tests for the in-memory vector index
// ABOUTME: Verifies the same contract the SQLite backend provides
package memory

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/harper/kb-standalone/internal/models"
)

func entry(docID string, seq int, text string, vector []float64) models.IndexEntry {
	return models.IndexEntry{
		ID:         docID + "#" + text,
		DocumentID: docID,
		Seq:        seq,
		Text:       text,
		Vector:     vector,
	}
}

func TestRoundTrip(t *testing.T) {
	ix := New(3)
	ctx := context.Background()

	v := []float64{0, 1, 0}
	if err := ix.Upsert(ctx, entry("doc", 0, "hello", v)); err != nil {
		t.Fatal(err)
	}

	results, err := ix.Query(ctx, v, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || math.Abs(results[0].Score-1.0) > 1e-9 {
		t.Errorf("results = %+v, want single entry with score 1.0", results)
	}
}

func TestEmptyQueryAndSmallIndex(t *testing.T) {
	ix := New(2)
	ctx := context.Background()

	results, err := ix.Query(ctx, []float64{1, 0}, 3)
	if err != nil || len(results) != 0 {
		t.Errorf("empty index: results = %v, err = %v; want empty, nil", results, err)
	}

	if err := ix.Upsert(ctx, entry("doc", 0, "single", []float64{1, 0})); err != nil {
		t.Fatal(err)
	}
	results, err = ix.Query(ctx, []float64{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("Query(k=3) = %d results, want 1", len(results))
	}
}

func TestUpsertOverwriteAndDelete(t *testing.T) {
	ix := New(2)
	ctx := context.Background()

	e := entry("doc", 0, "same-id", []float64{1, 0})
	if err := ix.Upsert(ctx, e); err != nil {
		t.Fatal(err)
	}
	e.Vector = []float64{0, 1}
	if err := ix.Upsert(ctx, e); err != nil {
		t.Fatal(err)
	}
	if ix.Len() != 1 {
		t.Errorf("Len() = %d after overwrite, want 1", ix.Len())
	}

	if err := ix.Upsert(ctx, entry("other", 0, "keep", []float64{1, 1})); err != nil {
		t.Fatal(err)
	}
	if err := ix.DeleteByDocument(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	if ix.Len() != 1 {
		t.Errorf("Len() = %d after delete, want 1", ix.Len())
	}

	docs, err := ix.Documents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "other" {
		t.Errorf("Documents() = %+v, want only other", docs)
	}
}

func TestStableTieOrder(t *testing.T) {
	ix := New(2)
	ctx := context.Background()

	if err := ix.Upsert(ctx, entry("a", 0, "first", []float64{1, 0})); err != nil {
		t.Fatal(err)
	}
	if err := ix.Upsert(ctx, entry("b", 0, "second", []float64{3, 0})); err != nil {
		t.Fatal(err)
	}

	results, err := ix.Query(ctx, []float64{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Text != "first" || results[1].Text != "second" {
		t.Errorf("tie order = %q, %q; want insertion order", results[0].Text, results[1].Text)
	}
}

func TestConcurrentUpsertAndQuery(t *testing.T) {
	ix := New(2)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			doc := string(rune('a' + i))
			_ = ix.Upsert(ctx, entry(doc, 0, doc, []float64{float64(i), 1}))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = ix.Query(ctx, []float64{1, 1}, 3)
		}()
	}
	wg.Wait()

	if ix.Len() != 8 {
		t.Errorf("Len() = %d, want 8", ix.Len())
	}
}
