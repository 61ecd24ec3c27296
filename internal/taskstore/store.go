// Package taskstore persists queued purchase tasks and order history.
//
// Submitting a task means durably queueing its spec here; the interval
// executor that replays queued tasks against the provider runs elsewhere
// and only consumes this table. A submission acknowledgment is the
// stored task UID.
//
// Storage is backed by a SQLite database at ~/.config/ecosniper/ecosniper.db
// (shared with confirmstore, separate tables).
package taskstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecosniper/internal/database"
	"ecosniper/internal/task"
)

// Task statuses as consumed by the executor.
const (
	// StatusQueued: waiting for the executor's next attempt window.
	StatusQueued = "queued"

	// StatusError: the last attempt failed; the executor will retry
	// while the attempt budget allows.
	StatusError = "error"

	// StatusExhausted: the attempt budget ran out; only a manual reset
	// re-queues the task.
	StatusExhausted = "exhausted"

	// StatusCompleted: an attempt succeeded and produced an order.
	StatusCompleted = "completed"
)

// TaskRecord is a queued purchase task: the immutable spec plus the
// retry bookkeeping the executor maintains.
type TaskRecord struct {
	// ID is the auto-increment primary key (assigned on insert).
	ID int64

	// UID is the stable public identifier of the task.
	UID string

	// Spec is the validated purchase-task specification as built.
	Spec task.Spec

	// Status is one of the Status* constants.
	Status string

	// Message is the human-readable outcome of the last attempt.
	Message string

	// RetryCount is how many attempts have run so far.
	RetryCount int

	// CreatedAt is when the task was queued.
	CreatedAt time.Time

	// UpdatedAt is the last time the record was modified.
	UpdatedAt time.Time
}

// Queue defines the persistence interface for purchase tasks. Submit is
// the task-submission collaborator the selection flow hands built specs to.
type Queue interface {
	// Submit durably queues one spec and returns the stored record,
	// UID assigned.
	Submit(spec task.Spec) (*TaskRecord, error)

	// Get retrieves a task by UID, or nil if not found.
	Get(uid string) (*TaskRecord, error)

	// List returns all tasks, newest first.
	List() ([]TaskRecord, error)

	// RecordAttempt stores the outcome of one purchase attempt: the new
	// status and message, with the retry counter incremented.
	RecordAttempt(uid string, status, message string) error

	// Reset re-queues a task: status back to queued, retry count zeroed.
	Reset(uid string) error

	// Delete removes a task by UID.
	Delete(uid string) error

	// Clear removes all tasks and returns how many were removed.
	Clear() (int64, error)

	// Close releases database resources.
	Close() error
}

// SQLiteQueue implements Queue backed by a local SQLite database.
type SQLiteQueue struct {
	db *sql.DB
}

// Open creates or opens the task queue at the default path.
func Open() (*SQLiteQueue, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
// The parent directory is created if it does not exist.
func OpenAt(path string) (*SQLiteQueue, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}

	q := &SQLiteQueue{db: db}
	if err := q.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return q, nil
}

// migrate creates the tasks and orders tables if they don't exist.
func (q *SQLiteQueue) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS purchase_tasks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			uid         TEXT    NOT NULL UNIQUE,
			spec        TEXT    NOT NULL,
			status      TEXT    NOT NULL DEFAULT 'queued',
			message     TEXT    NOT NULL DEFAULT '',
			retry_count INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT    NOT NULL DEFAULT (datetime('now')),
			updated_at  TEXT    NOT NULL DEFAULT (datetime('now'))
		);
		CREATE INDEX IF NOT EXISTS idx_purchase_tasks_status ON purchase_tasks(status);

		CREATE TABLE IF NOT EXISTS order_history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			uid        TEXT NOT NULL UNIQUE,
			plan_code  TEXT NOT NULL,
			name       TEXT NOT NULL DEFAULT '',
			datacenter TEXT NOT NULL,
			status     TEXT NOT NULL,
			order_id   TEXT NOT NULL DEFAULT '',
			order_url  TEXT NOT NULL DEFAULT '',
			error      TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`
	if _, err := q.db.Exec(ddl); err != nil {
		return fmt.Errorf("taskstore: migration failed: %w", err)
	}
	return nil
}

// Submit durably queues one spec and returns the stored record.
func (q *SQLiteQueue) Submit(spec task.Spec) (*TaskRecord, error) {
	encoded, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("taskstore: failed to encode spec: %w", err)
	}

	now := time.Now().UTC()
	record := &TaskRecord{
		UID:       uuid.NewString(),
		Spec:      spec,
		Status:    StatusQueued,
		Message:   "task queued, awaiting execution",
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := q.db.Exec(`
		INSERT INTO purchase_tasks (uid, spec, status, message, retry_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)`,
		record.UID, string(encoded), record.Status, record.Message,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("taskstore: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("taskstore: failed to get last insert ID: %w", err)
	}
	record.ID = id
	return record, nil
}

// Get retrieves a task by UID, or nil if not found.
func (q *SQLiteQueue) Get(uid string) (*TaskRecord, error) {
	row := q.db.QueryRow(`
		SELECT id, uid, spec, status, message, retry_count, created_at, updated_at
		FROM purchase_tasks WHERE uid = ?`, uid)

	record, err := scanTask(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("taskstore: query failed: %w", err)
	}
	return record, nil
}

// List returns all tasks, newest first.
func (q *SQLiteQueue) List() ([]TaskRecord, error) {
	rows, err := q.db.Query(`
		SELECT id, uid, spec, status, message, retry_count, created_at, updated_at
		FROM purchase_tasks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("taskstore: query failed: %w", err)
	}
	defer rows.Close()

	var records []TaskRecord
	for rows.Next() {
		record, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("taskstore: scan failed: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// RecordAttempt stores the outcome of one purchase attempt.
func (q *SQLiteQueue) RecordAttempt(uid string, status, message string) error {
	result, err := q.db.Exec(`
		UPDATE purchase_tasks
		SET status = ?, message = ?, retry_count = retry_count + 1, updated_at = ?
		WHERE uid = ?`,
		status, message, time.Now().UTC().Format(time.RFC3339Nano), uid)
	if err != nil {
		return fmt.Errorf("taskstore: attempt update failed: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("taskstore: task %s not found", uid)
	}
	return nil
}

// Reset re-queues a task: status back to queued, retry count zeroed.
func (q *SQLiteQueue) Reset(uid string) error {
	result, err := q.db.Exec(`
		UPDATE purchase_tasks
		SET status = ?, retry_count = 0, message = 'task reset, will retry', updated_at = ?
		WHERE uid = ?`,
		StatusQueued, time.Now().UTC().Format(time.RFC3339Nano), uid)
	if err != nil {
		return fmt.Errorf("taskstore: reset failed: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("taskstore: task %s not found", uid)
	}
	return nil
}

// Delete removes a task by UID.
func (q *SQLiteQueue) Delete(uid string) error {
	result, err := q.db.Exec(`DELETE FROM purchase_tasks WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("taskstore: delete failed: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("taskstore: task %s not found", uid)
	}
	return nil
}

// Clear removes all tasks.
func (q *SQLiteQueue) Clear() (int64, error) {
	result, err := q.db.Exec(`DELETE FROM purchase_tasks`)
	if err != nil {
		return 0, fmt.Errorf("taskstore: clear failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (q *SQLiteQueue) Close() error {
	return q.db.Close()
}

// scanTask scans one task row using the given Scan function.
func scanTask(scan func(dest ...any) error) (*TaskRecord, error) {
	var record TaskRecord
	var encoded, createdStr, updatedStr string
	err := scan(
		&record.ID, &record.UID, &encoded, &record.Status, &record.Message,
		&record.RetryCount, &createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(encoded), &record.Spec); err != nil {
		return nil, fmt.Errorf("failed to decode spec for task %s: %w", record.UID, err)
	}
	record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	record.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return &record, nil
}
