package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// SQLiteStore persists Records in a single SQLite file
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrStore, "create store directory %s", dir)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "open sqlite")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrStore, "ping sqlite")
	}
	return &SQLiteStore{db: db, logger: logging.GetLogger("store")}, nil
}

// Migrate creates the schema
func (s *SQLiteStore) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		ref TEXT NOT NULL,
		definition_checksum TEXT DEFAULT '',
		status TEXT NOT NULL,
		error_code TEXT DEFAULT '',
		error TEXT DEFAULT '',
		decisions TEXT DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return errors.Wrap(err, errors.ErrStore, "migrate schema")
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveEvaluation stores rec, assigning its ID and CreatedAt when unset
func (s *SQLiteStore) SaveEvaluation(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	decisions := ""
	if rec.Evaluation != nil {
		data, err := json.Marshal(rec.Evaluation)
		if err != nil {
			return errors.Wrap(err, errors.ErrStore, "marshal decisions")
		}
		decisions = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (id, ref, definition_checksum, status, error_code, error, decisions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Ref, rec.DefinitionChecksum, string(rec.Status), string(rec.ErrorCode), rec.Error, decisions, rec.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrStore, "insert evaluation")
	}
	s.logger.Debug().Str("id", rec.ID).Str("status", string(rec.Status)).Msg("Recorded evaluation")
	return nil
}

// GetEvaluation loads one record, ErrNotFound when absent
func (s *SQLiteStore) GetEvaluation(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, ref, definition_checksum, status, error_code, error, decisions, created_at
		FROM evaluations WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.ErrNotFound, "evaluation %s not found", id).WithDetail("id", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "query evaluation")
	}
	return rec, nil
}

// ListEvaluations returns the most recent records first
func (s *SQLiteStore) ListEvaluations(ctx context.Context, limit int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ref, definition_checksum, status, error_code, error, decisions, created_at
		FROM evaluations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "list evaluations")
	}
	defer rows.Close()

	results := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrStore, "scan evaluation")
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "list evaluations")
	}
	return results, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec       Record
		status    string
		code      string
		decisions string
	)
	if err := row.Scan(&rec.ID, &rec.Ref, &rec.DefinitionChecksum, &status, &code, &rec.Error, &decisions, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Status = Status(status)
	rec.ErrorCode = errors.ErrorCode(code)
	if decisions != "" {
		var eval types.Evaluation
		if err := json.Unmarshal([]byte(decisions), &eval); err != nil {
			return nil, err
		}
		rec.Evaluation = &eval
	}
	return &rec, nil
}
