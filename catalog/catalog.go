package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/judgearchive/problem"
)

// ErrRecordNotFound is returned when no record has the requested ID.
var ErrRecordNotFound = errors.New("catalog record not found")

// Store keeps a history of workspace creations in SQLite. It is a log only;
// the README is always rebuilt from the info.json files on disk.
type Store struct {
	db *sql.DB
}

// Record is one workspace creation.
type Record struct {
	RecordID     uuid.UUID `json:"record_id"`
	ProblemID    string    `json:"problem_id"`
	Name         string    `json:"name"`
	Judge        string    `json:"judge"`
	URL          string    `json:"url"`
	WorkspaceDir string    `json:"workspace_dir"`
	Created      bool      `json:"created"` // false when the directory already existed
	CreatedAt    time.Time `json:"created_at"`
}

// NewStore opens the catalog at dbPath, creating its schema if needed.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the workspaces table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workspaces (
		record_id TEXT PRIMARY KEY,
		problem_id TEXT NOT NULL,
		name TEXT NOT NULL,
		judge TEXT NOT NULL,
		url TEXT NOT NULL,
		workspace_dir TEXT NOT NULL,
		created INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workspaces_problem_id ON workspaces (problem_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records a workspace creation for meta.
func (s *Store) Add(judge, workspaceDir string, created bool, meta problem.Metadata) (*Record, error) {
	record := &Record{
		RecordID:     uuid.New(),
		ProblemID:    meta.ID,
		Name:         meta.Name,
		Judge:        judge,
		URL:          meta.OnlineJudgeURL,
		WorkspaceDir: workspaceDir,
		Created:      created,
		CreatedAt:    time.Now().UTC(),
	}

	query := `
		INSERT INTO workspaces (
			record_id, problem_id, name, judge, url, workspace_dir, created, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		record.RecordID.String(),
		record.ProblemID,
		record.Name,
		record.Judge,
		record.URL,
		record.WorkspaceDir,
		record.Created,
		formatTime(record.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}

	return record, nil
}

// Get retrieves a record by ID.
func (s *Store) Get(recordID uuid.UUID) (*Record, error) {
	query := `
		SELECT record_id, problem_id, name, judge, url, workspace_dir, created, created_at
		FROM workspaces
		WHERE record_id = ?
	`

	record, err := scanRecord(s.db.QueryRow(query, recordID.String()))
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	return record, nil
}

// Filter narrows List.
type Filter struct {
	ProblemID string // only records for this padded ID
	Limit     int    // 0 means no limit
}

// List returns records newest first.
func (s *Store) List(filter Filter) ([]Record, error) {
	query := `
		SELECT record_id, problem_id, name, judge, url, workspace_dir, created, created_at
		FROM workspaces
	`
	args := []any{}
	if filter.ProblemID != "" {
		query += " WHERE problem_id = ?"
		args = append(args, filter.ProblemID)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var record Record
	var recordIDStr, createdAtStr string

	err := row.Scan(
		&recordIDStr, &record.ProblemID, &record.Name, &record.Judge,
		&record.URL, &record.WorkspaceDir, &record.Created, &createdAtStr,
	)
	if err != nil {
		return nil, err
	}

	record.RecordID, err = uuid.Parse(recordIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid record_id %q: %w", recordIDStr, err)
	}
	record.CreatedAt = parseTime(createdAtStr)

	return &record, nil
}

// timeLayout is fixed width so that string order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
