package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fluentnotes/fluent-notes/pkg/logger"
)

// MeetingStorage handles storage of meeting records and keeps the
// full-text search index in lockstep with the primary table. Every row
// write and its index maintenance happen inside one transaction, so a
// committed record is always searchable and a rolled-back one never is.
type MeetingStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewMeetingStorage creates a new SQLite meeting storage
func NewMeetingStorage(db *sql.DB, logger *logger.Logger) (*MeetingStorage, error) {
	storage := &MeetingStorage{
		db:     db,
		logger: logger.Named("sqlite-meetings"),
	}

	if err := storage.initDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize meeting storage: %w", err)
	}

	return storage, nil
}

// initDB initializes the database tables
func (s *MeetingStorage) initDB() error {
	// Create meetings table
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS meetings (
			job_id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'processing',
			transcript TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			action_items TEXT NOT NULL DEFAULT '[]',
			decisions TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create meetings table: %w", err)
	}

	// Create FTS5 table for full-text search over transcripts. Maintained
	// explicitly on the write path, never via triggers.
	_, err = s.db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS meetings_fts USING fts5(
			job_id UNINDEXED,
			transcript
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create meetings_fts table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_meetings_status ON meetings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_meetings_updated_at ON meetings(updated_at)`,
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create meetings index: %w", err)
		}
	}

	return nil
}

// Upsert inserts the record if its job ID is absent, otherwise replaces
// all mutable fields of the existing row. created_at is preserved on
// update and updated_at is refreshed on every call. The search index entry
// for the job is rewritten in the same transaction.
func (s *MeetingStorage) Upsert(record *MeetingRecord) error {
	now := time.Now().UTC()

	actionItems, err := encodeList(record.ActionItems)
	if err != nil {
		return fmt.Errorf("failed to encode action items: %w", err)
	}
	decisions, err := encodeList(record.Decisions)
	if err != nil {
		return fmt.Errorf("failed to encode decisions: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO meetings (job_id, filename, status, transcript, summary, action_items, decisions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			filename = excluded.filename,
			status = excluded.status,
			transcript = excluded.transcript,
			summary = excluded.summary,
			action_items = excluded.action_items,
			decisions = excluded.decisions,
			updated_at = excluded.updated_at`,
		record.JobID,
		record.Filename,
		record.Status,
		record.Transcript,
		record.Summary,
		actionItems,
		decisions,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert meeting: %w", err)
	}

	// Rewrite the index entry for this job
	if _, err := tx.Exec(`DELETE FROM meetings_fts WHERE job_id = ?`, record.JobID); err != nil {
		return fmt.Errorf("failed to clear search index entry: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO meetings_fts (job_id, transcript) VALUES (?, ?)`,
		record.JobID, record.Transcript,
	); err != nil {
		return fmt.Errorf("failed to write search index entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}

	return nil
}

// Get returns the record for the given job ID, or nil if no such record
// exists.
func (s *MeetingStorage) Get(jobID string) (*MeetingRecord, error) {
	row := s.db.QueryRow(
		`SELECT job_id, filename, status, transcript, summary, action_items, decisions, created_at, updated_at
		FROM meetings
		WHERE job_id = ?`,
		jobID,
	)

	record, err := scanMeetingRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting %s: %w", jobID, err)
	}

	return record, nil
}

// List returns all records, most recently updated first. Unbounded by
// contract; intended for small-to-moderate record counts.
func (s *MeetingStorage) List() ([]*MeetingRecord, error) {
	rows, err := s.db.Query(
		`SELECT job_id, filename, status, transcript, summary, action_items, decisions, created_at, updated_at
		FROM meetings
		ORDER BY updated_at DESC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}
	defer rows.Close()

	return s.scanMeetingRows(rows)
}

// Search performs a full-text match against indexed transcripts and
// returns full records ordered by relevance, best match first. The match
// expression passes through to FTS5; callers are responsible for
// validating user input into a well-formed expression first (the HTTP
// layer rewrites queries into a quoted bag of terms).
func (s *MeetingStorage) Search(query string) ([]*MeetingRecord, error) {
	rows, err := s.db.Query(
		`SELECT m.job_id, m.filename, m.status, m.transcript, m.summary, m.action_items, m.decisions, m.created_at, m.updated_at
		FROM meetings_fts fts
		JOIN meetings m ON m.job_id = fts.job_id
		WHERE fts.meetings_fts MATCH ?
		ORDER BY fts.rank`,
		query,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search transcripts: %w", err)
	}
	defer rows.Close()

	return s.scanMeetingRows(rows)
}

// Delete removes the record and its search index entry in one
// transaction. Deleting an absent job ID is a no-op.
func (s *MeetingStorage) Delete(jobID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM meetings WHERE job_id = ?`, jobID); err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM meetings_fts WHERE job_id = ?`, jobID); err != nil {
		return fmt.Errorf("failed to delete search index entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanMeetingRow scans a single database row into a MeetingRecord
func scanMeetingRow(row rowScanner) (*MeetingRecord, error) {
	var record MeetingRecord
	var actionItems, decisions string
	var createdAt, updatedAt string

	if err := row.Scan(
		&record.JobID,
		&record.Filename,
		&record.Status,
		&record.Transcript,
		&record.Summary,
		&actionItems,
		&decisions,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	record.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	record.ActionItems = decodeList(actionItems)
	record.Decisions = decodeList(decisions)

	return &record, nil
}

// scanMeetingRows scans database rows into MeetingRecord structs
func (s *MeetingStorage) scanMeetingRows(rows *sql.Rows) ([]*MeetingRecord, error) {
	var records []*MeetingRecord
	for rows.Next() {
		record, err := scanMeetingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meetings: %w", err)
	}

	return records, nil
}

// encodeList serializes a list field for storage. Callers always get
// native slices back; the JSON encoding never leaves this package.
func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeList deserializes a stored list field. Malformed or null stored
// values normalize to the empty slice so readers never see nil.
func decodeList(data string) []string {
	var items []string
	if err := json.Unmarshal([]byte(data), &items); err != nil || items == nil {
		return []string{}
	}
	return items
}
