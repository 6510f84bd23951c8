// ABOUTME: SQLite schema for the persistent vector index
// ABOUTME: Entries table plus metadata pinning dimension and model version
package sqlite

// Schema contains all SQL statements for database initialization.
const Schema = `
-- Index entries: one row per (vector, passage, provenance) triple
CREATE TABLE IF NOT EXISTS entries (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    text TEXT NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_entries_document ON entries(document_id);

-- Singleton metadata row pinning the vector space this index was built in
CREATE TABLE IF NOT EXISTS index_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    dimension INTEGER NOT NULL,
    model TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
