// ABOUTME: Persistent vector index on SQLite with BLOB-encoded vectors
// ABOUTME: Implements upsert, delete-by-document, and cosine top-k query
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/harper/kb-standalone/internal/index"
	"github.com/harper/kb-standalone/internal/models"
)

// Store is the SQLite-backed vector index. Entries survive process
// restarts; the similarity search is a brute-force cosine scan, which is
// plenty for a local knowledge base.
type Store struct {
	db        *sql.DB
	dimension int
	model     string
}

var _ index.Index = (*Store)(nil)

func newStore(conn *sql.DB, dimension int, model string) (*Store, error) {
	if _, err := conn.Exec(Schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &Store{db: conn, dimension: dimension, model: model}
	if err := s.checkMeta(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// checkMeta pins (dimension, model) on first open and rejects reopening
// under a different vector space. Mixing embedding model versions without
// reindexing silently breaks similarity scores, so it is an error here.
func (s *Store) checkMeta() error {
	var dimension int
	var model string

	err := s.db.QueryRow(`SELECT dimension, model FROM index_meta WHERE id = 1`).Scan(&dimension, &model)
	if err == sql.ErrNoRows {
		_, err = s.db.Exec(`INSERT INTO index_meta (id, dimension, model) VALUES (1, ?, ?)`, s.dimension, s.model)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to read index metadata: %w", err)
	}

	if s.dimension > 0 && dimension > 0 && dimension != s.dimension {
		return fmt.Errorf("%w: index built with %d dimensions, configured %d",
			index.ErrIndexCorruption, dimension, s.dimension)
	}
	if s.model != "" && model != "" && model != s.model {
		return fmt.Errorf("%w: index built with embedding model %q, configured %q; reindex required",
			index.ErrIndexCorruption, model, s.model)
	}
	return nil
}

// Upsert inserts or atomically replaces the entry with the same ID.
func (s *Store) Upsert(ctx context.Context, entry models.IndexEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("entry ID is required")
	}
	if s.dimension > 0 && len(entry.Vector) != s.dimension {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", s.dimension, len(entry.Vector))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, document_id, seq, text, vector)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			seq = excluded.seq,
			text = excluded.text,
			vector = excluded.vector
	`, entry.ID, entry.DocumentID, entry.Seq, entry.Text, index.VectorToBlob(entry.Vector))

	return err
}

// DeleteByDocument removes every entry for the document.
func (s *Store) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE document_id = ?`, documentID)
	return err
}

// Query scans all entries and returns the k most cosine-similar ones in
// descending order. Equal scores keep insertion order.
func (s *Store) Query(ctx context.Context, vector []float64, k int) ([]models.ScoredPassage, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if s.dimension > 0 && len(vector) != s.dimension {
		return nil, fmt.Errorf("invalid query dimension: expected %d, got %d", s.dimension, len(vector))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, seq, text, vector
		FROM entries
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []models.ScoredPassage
	for rows.Next() {
		var (
			p    models.ScoredPassage
			blob []byte
		)
		if err := rows.Scan(&p.DocumentID, &p.Seq, &p.Text, &blob); err != nil {
			return nil, err
		}

		stored := index.BlobToVector(blob)
		if s.dimension > 0 && len(stored) != s.dimension {
			return nil, fmt.Errorf("%w: entry %s#%d has %d dimensions, index expects %d",
				index.ErrIndexCorruption, p.DocumentID, p.Seq, len(stored), s.dimension)
		}

		p.Score = index.CosineSimilarity(vector, stored)
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Documents lists indexed documents with chunk counts in ingestion order.
func (s *Store) Documents(ctx context.Context) ([]index.DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, COUNT(*)
		FROM entries
		GROUP BY document_id
		ORDER BY MIN(rowid) ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs []index.DocumentInfo
	for rows.Next() {
		var info index.DocumentInfo
		if err := rows.Scan(&info.ID, &info.Chunks); err != nil {
			return nil, err
		}
		docs = append(docs, info)
	}
	return docs, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
