package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/ports"
)

// timestampLayout is fixed-width so text ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists session records in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at path. When SQLite cannot
// be opened the store degrades to a jsonl file next to it.
func NewSQLiteStore(path string) *SQLiteStore {
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	// Sibling invocations may write at the same time.
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(2000)")
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		_ = db.Close()
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		timestamp TEXT,
		working_dir TEXT,
		model TEXT,
		cost_usd REAL,
		lines_added INTEGER,
		lines_removed INTEGER,
		trend TEXT,
		site TEXT
	);`)
	return err
}

func (s *SQLiteStore) fallback() *FileStore {
	return NewFileStore(strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".jsonl")
}

// Save inserts a new record, assigning an id when missing.
func (s *SQLiteStore) Save(record domain.SessionRecord) error {
	if s.db == nil {
		return s.fallback().Save(record)
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO sessions
		(id, timestamp, working_dir, model, cost_usd, lines_added, lines_removed, trend, site)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format(timestampLayout),
		record.WorkingDir,
		record.Model,
		record.CostUSD,
		record.LinesAdded,
		record.LinesRemoved,
		string(record.Trend),
		record.Site,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Records returns the newest records first; limit <= 0 returns all.
func (s *SQLiteStore) Records(limit int) ([]domain.SessionRecord, error) {
	if s.db == nil {
		return s.fallback().Records(limit)
	}
	query := "SELECT id, timestamp, working_dir, model, cost_usd, lines_added, lines_removed, trend, site FROM sessions ORDER BY timestamp DESC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.SessionRecord
	for rows.Next() {
		var rec domain.SessionRecord
		var ts, trend string
		if err := rows.Scan(&rec.ID, &ts, &rec.WorkingDir, &rec.Model, &rec.CostUSD, &rec.LinesAdded, &rec.LinesRemoved, &trend, &rec.Site); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timestampLayout, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Trend = domain.Trend(trend)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all records.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback().Clear()
	}
	_, err := s.db.Exec("DELETE FROM sessions")
	return err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
