package audit

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/clai/internal/domain"
	"github.com/doeshing/clai/internal/pkg/filesystem"
	"github.com/doeshing/clai/internal/ports"
)

// SQLiteStore persists audit records in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the audit database. An empty path
// selects ~/.clai/audit/audit.db. When the database cannot be opened
// the store degrades to the jsonl fallback.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filepath.Join(filesystem.UserHomeDir(), ".clai", "audit", "audit.db")
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS classifications (
		id TEXT PRIMARY KEY,
		timestamp TEXT,
		command TEXT,
		level TEXT,
		reasons TEXT,
		executed INTEGER,
		exit_code INTEGER,
		duration_ms INTEGER
	);`)
	return err
}

func (s *SQLiteStore) fallback() *FileStore {
	return &FileStore{path: strings.TrimSuffix(s.path, ".db") + ".jsonl"}
}

// Save inserts a new record.
func (s *SQLiteStore) Save(record domain.AuditRecord) error {
	if s.db == nil {
		return s.fallback().Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	reasons, err := json.Marshal(record.Reasons)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO classifications
		(id, timestamp, command, level, reasons, executed, exit_code, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.Format(time.RFC3339),
		record.Command,
		record.Level.String(),
		string(reasons),
		boolToInt(record.Executed),
		record.ExitCode,
		record.DurationMS,
	)
	return err
}

// Records returns audit entries, newest first.
func (s *SQLiteStore) Records(limit int) ([]domain.AuditRecord, error) {
	if s.db == nil {
		return s.fallback().Records(limit)
	}
	query := `SELECT id, timestamp, command, level, reasons, executed, exit_code, duration_ms
		FROM classifications ORDER BY datetime(timestamp) DESC`
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
	var records []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var ts, level, reasons string
		var executed int
		if err := rows.Scan(&rec.ID, &ts, &rec.Command, &level, &reasons, &executed, &rec.ExitCode, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Level = domain.ParseSafetyLevel(level)
		_ = json.Unmarshal([]byte(reasons), &rec.Reasons)
		rec.Executed = executed == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all audit entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback().Clear()
	}
	_, err := s.db.Exec("DELETE FROM classifications")
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.AuditRepository = (*SQLiteStore)(nil)
