// Package history persists verification results. The store is
// append-only: every verification inserts a new record and nothing is
// ever updated in place.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ppiankov/veracity/internal/model"
)

// ErrNotFound is returned when a record id does not exist
var ErrNotFound = errors.New("history record not found")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Store is the persistence contract the API layer depends on
type Store interface {
	Append(ctx context.Context, record *model.HistoryRecord) error
	List(ctx context.Context, limit, offset int) ([]model.HistoryRecord, error)
	Get(ctx context.Context, id int64) (*model.HistoryRecord, error)
	Close() error
}

// SQLiteStore implements Store on a local SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the history database at path and
// ensures the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS verifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		input_text TEXT NOT NULL,
		trust_score INTEGER NOT NULL,
		source TEXT NOT NULL,
		result_json TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Append inserts a new record and fills in its ID and CreatedAt
func (s *SQLiteStore) Append(ctx context.Context, record *model.HistoryRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO verifications (created_at, input_text, trust_score, source, result_json)
		 VALUES (?, ?, ?, ?, ?)`,
		record.CreatedAt.Format(time.RFC3339Nano),
		record.InputText,
		record.TrustScore,
		string(record.Source),
		string(resultJSON),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	record.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read insert id: %w", err)
	}
	return nil
}

// List returns records newest-first. limit is clamped to [1, 100] with a
// default of 20; negative offsets read from the start.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]model.HistoryRecord, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, input_text, trust_score, source, result_json
		 FROM verifications ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []model.HistoryRecord{}
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// Get returns a single record by id
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, input_text, trust_score, source, result_json
		 FROM verifications WHERE id = ?`, id)

	record, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return record, err
}

func scanRecord(scan func(dest ...interface{}) error) (*model.HistoryRecord, error) {
	var (
		record     model.HistoryRecord
		createdAt  string
		source     string
		resultJSON string
	)

	if err := scan(&record.ID, &createdAt, &record.InputText, &record.TrustScore, &source, &resultJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	record.CreatedAt = ts
	record.Source = model.ResultSource(source)

	if err := json.Unmarshal([]byte(resultJSON), &record.Result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	return &record, nil
}
