package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/pkg/failure"
	"github.com/rohmanhakim/askpdf/pkg/fileutil"

	_ "modernc.org/sqlite"
)

/*
SQLiteStore persists chunks in a single SQLite file under the persist
directory.

  - Open failures are DB_CONNECTION_ERROR
  - Failures of an opened store are DB_OPERATION_ERROR
  - Deleting ids of which none exist is DOCUMENT_NOT_FOUND
  - The store never logs; callers wrap it in a boundary
*/

const DatabaseFile = "askpdf.db"

type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open creates persistDir if needed and opens (or creates) the store in it.
func Open(ctx context.Context, persistDir string) (*SQLiteStore, *failure.Error) {
	if ferr := fileutil.EnsureDir(persistDir); ferr != nil {
		return nil, connectionError(persistDir, ferr)
	}
	return OpenPath(ctx, filepath.Join(persistDir, DatabaseFile))
}

// OpenPath opens the store at an explicit database path.
func OpenPath(ctx context.Context, path string) (*SQLiteStore, *failure.Error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, connectionError(path, err)
	}
	// a single writer avoids SQLITE_BUSY between batch workers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, connectionError(path, err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, connectionError(path, err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			idx INTEGER NOT NULL,
			content TEXT NOT NULL,
			hash TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source)`,
	}
	for _, query := range statements {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddChunks inserts chunks in one transaction. Existing ids are replaced.
func (s *SQLiteStore) AddChunks(ctx context.Context, chunks []Chunk) *failure.Error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return operationError("add chunks", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO chunks (id, source, idx, content, hash, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return operationError("add chunks", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, c := range chunks {
		created := c.CreatedAt
		if created.IsZero() {
			created = now
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Source, c.Index, c.Content, c.Hash, created.Format(time.RFC3339Nano)); err != nil {
			return operationError("add chunks", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return operationError("add chunks", err)
	}
	return nil
}

// IDs lists every chunk id, sorted.
func (s *SQLiteStore) IDs(ctx context.Context) ([]string, *failure.Error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM chunks ORDER BY id`)
	if err != nil {
		return nil, operationError("list chunks", err)
	}
	defer func() { _ = rows.Close() }()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, operationError("list chunks", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, operationError("list chunks", err)
	}
	return ids, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, *failure.Error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, operationError("count chunks", err)
	}
	return n, nil
}

// Delete removes the given ids and returns how many existed. Unknown ids
// are ignored unless none of them exist.
func (s *SQLiteStore) Delete(ctx context.Context, ids []string) (int, *failure.Error) {
	if len(ids) == 0 {
		return 0, failure.New(failure.KindValidation, failure.CodeValidationError, "no document ids given", nil)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, operationError("delete chunks", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, operationError("delete chunks", err)
	}
	if n == 0 {
		return 0, failure.New(
			failure.KindDatabase,
			failure.CodeDocumentNotFound,
			"none of the requested documents exist",
			failure.Details{metadata.AttrDocumentID: strings.Join(ids, ",")},
		)
	}
	return int(n), nil
}

// DeleteAll empties the store and returns how many chunks were removed.
func (s *SQLiteStore) DeleteAll(ctx context.Context) (int, *failure.Error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chunks`)
	if err != nil {
		return 0, operationError("delete all chunks", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, operationError("delete all chunks", err)
	}
	return int(n), nil
}

// Search ranks chunks by how often the query's terms occur in them and
// returns at most k hits with a positive score. Ties keep id order.
func (s *SQLiteStore) Search(ctx context.Context, query string, k int) ([]Hit, *failure.Error) {
	terms := Terms(query)
	if len(terms) == 0 || k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, source, idx, content, hash, created_at FROM chunks ORDER BY id`)
	if err != nil {
		return nil, operationError("search chunks", err)
	}
	defer func() { _ = rows.Close() }()

	var hits []Hit
	for rows.Next() {
		var c Chunk
		var created string
		if err := rows.Scan(&c.ID, &c.Source, &c.Index, &c.Content, &c.Hash, &created); err != nil {
			return nil, operationError("search chunks", err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)

		if score := score(terms, c.Content); score > 0 {
			hits = append(hits, Hit{Chunk: c, Score: score})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, operationError("search chunks", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Terms lowercases text and returns its distinct words of two or more
// letters or digits, in first-seen order.
func Terms(text string) []string {
	seen := map[string]bool{}
	var terms []string
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(w)) < 2 || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
	}
	return terms
}

func score(terms []string, content string) float64 {
	words := map[string]int{}
	for _, w := range strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w]++
	}

	total := 0.0
	for _, t := range terms {
		if n := words[t]; n > 0 {
			// distinct matches dominate repetition
			total += 1 + float64(n-1)*0.1
		}
	}
	return total
}
