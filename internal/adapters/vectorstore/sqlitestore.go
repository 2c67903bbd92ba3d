package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/callahq/matchengine/internal/domain/model"
	"github.com/callahq/matchengine/pkg/metrics"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id     TEXT PRIMARY KEY,
	kind   TEXT NOT NULL,
	owner  TEXT NOT NULL,
	vector TEXT NOT NULL,
	body   TEXT NOT NULL,
	meta   TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind);
`

// SQLiteStore persists documents in a single SQLite file. Nearest-neighbor
// queries load candidate vectors and rank them in-process, which keeps the
// store exact and dependency-light at the cost of a full scan per query.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the store at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	// modernc sqlite DSN, single writer.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", ErrUnavailable, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: sqlite ping: %v", ErrUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: apply schema: %v", ErrUnavailable, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Upsert replaces the row for doc.ID in a single statement, so the swap is
// atomic with respect to readers.
func (s *SQLiteStore) Upsert(ctx context.Context, doc Document) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpsertLatency(float64(time.Since(start).Milliseconds()))
	}()

	if len(doc.Vector) == 0 {
		return ErrInvalidVector
	}
	vec, err := json.Marshal(doc.Vector)
	if err != nil {
		return fmt.Errorf("encode vector: %w", err)
	}
	meta, err := json.Marshal(doc.Meta)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, kind, owner, vector, body, meta)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			owner = excluded.owner,
			vector = excluded.vector,
			body = excluded.body,
			meta = excluded.meta;`,
		doc.ID, string(doc.Kind), doc.Owner, string(vec), doc.Text, string(meta))
	if err != nil {
		return fmt.Errorf("%w: upsert %s: %v", ErrUnavailable, doc.ID, err)
	}
	return nil
}

// Query ranks all stored documents by cosine similarity to vector.
func (s *SQLiteStore) Query(ctx context.Context, vector []float32, topK int) ([]Hit, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if topK < 1 {
		return nil, ErrInvalidLimit
	}
	if len(vector) == 0 {
		return nil, ErrInvalidVector
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, owner, vector, meta FROM documents;`)
	if err != nil {
		return nil, fmt.Errorf("%w: query documents: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var id, kind, owner, vecJSON, metaJSON string
		if err := rows.Scan(&id, &kind, &owner, &vecJSON, &metaJSON); err != nil {
			return nil, fmt.Errorf("%w: scan document: %v", ErrUnavailable, err)
		}
		var stored []float32
		if err := json.Unmarshal([]byte(vecJSON), &stored); err != nil {
			return nil, fmt.Errorf("decode vector for %s: %w", id, err)
		}
		var meta map[string]string
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, fmt.Errorf("decode meta for %s: %w", id, err)
		}
		hits = append(hits, Hit{
			ID:         id,
			Kind:       model.OwnerKind(kind),
			Owner:      owner,
			Meta:       meta,
			Similarity: Cosine(vector, stored),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate documents: %v", ErrUnavailable, err)
	}

	sortHits(hits)
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Delete removes the row for id; unknown ids are a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrUnavailable, id, err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count documents: %v", ErrUnavailable, err)
	}
	return n, nil
}
