package pubsite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryIndex is the index path that keeps records in an in-process database.
const MemoryIndex = ":memory:"

// Store is the SQLite record index the preview server reads from. It is
// rebuilt from the content directory on every reload.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if path != MemoryIndex {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == MemoryIndex {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		// WAL lets readers proceed while a reload rewrites the table.
		if _, err := db.Exec(`
			PRAGMA journal_mode=WAL;
			PRAGMA busy_timeout=5000;
			PRAGMA synchronous=NORMAL;
			PRAGMA cache_size=-8000;
		`); err != nil {
			db.Close()
			return nil, err
		}
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT,
    raw_date TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL,
    body TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    source TEXT NOT NULL,
    problem TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS records_path ON records (path);
`)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`ALTER TABLE records ADD COLUMN problem TEXT NOT NULL DEFAULT '';`); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			return nil
		}
		return err
	}
	return nil
}

// ReplaceAll swaps the whole index for records in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, records []ContentRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (id, path, title, date, raw_date, tags, body, excerpt, source, problem) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range records {
		var date sql.NullString
		if r.Date != nil {
			date = sql.NullString{String: r.Date.Format(time.RFC3339Nano), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Path, r.Title, date, r.RawDate, FormatTags(r.Tags), r.Body, r.Excerpt, r.Source, r.Problem); err != nil {
			return fmt.Errorf("index %s: %w", r.Source, err)
		}
	}
	return tx.Commit()
}

const recordColumns = `id, path, title, date, raw_date, tags, body, excerpt, source, problem`

// ListRecords returns every indexed record, drafts included, ordered by source.
func (s *Store) ListRecords(ctx context.Context) ([]ContentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY source`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ContentRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetByID returns a record by ID regardless of its draft status.
func (s *Store) GetByID(ctx context.Context, id string) (ContentRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ContentRecord{}, ErrNotFound.WithDetails(map[string]string{"id": id})
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (ContentRecord, error) {
	var r ContentRecord
	var date sql.NullString
	var tags string
	if err := sc.Scan(&r.ID, &r.Path, &r.Title, &date, &r.RawDate, &tags, &r.Body, &r.Excerpt, &r.Source, &r.Problem); err != nil {
		return ContentRecord{}, err
	}
	if date.Valid {
		t, err := time.Parse(time.RFC3339Nano, date.String)
		if err != nil {
			return ContentRecord{}, fmt.Errorf("record %s: stored date: %w", r.ID, err)
		}
		r.Date = &t
	}
	r.Tags = ParseTags(tags)
	return r, nil
}

// FormatTags encodes tags as a comma-delimited string with leading and
// trailing commas (",go,web,"), the form ParseTags reads back.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
