package taskstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecosniper/internal/util"
)

// Order statuses.
const (
	OrderStatusSuccess = "success"
	OrderStatusFailed  = "failed"
)

// OrderRecord is one entry in the order history: the outcome of a
// purchase attempt, successful or not.
type OrderRecord struct {
	ID         int64
	UID        string
	PlanCode   string
	Name       string
	Datacenter string
	Status     string
	OrderID    string
	OrderURL   string
	Error      string
	CreatedAt  time.Time
}

// AddOrder records a purchase outcome. A previous entry for the same
// plan, datacenter, and status is replaced rather than duplicated, so
// repeated failed attempts for one target collapse into the latest one.
func (q *SQLiteQueue) AddOrder(record OrderRecord) (*OrderRecord, error) {
	if record.PlanCode == "" || record.Datacenter == "" || record.Status == "" {
		return nil, fmt.Errorf("taskstore: plan code, datacenter, and status are required")
	}

	record.UID = uuid.NewString()
	record.Datacenter = util.NormalizeKey(record.Datacenter)
	record.CreatedAt = time.Now().UTC()

	tx, err := q.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("taskstore: begin failed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM order_history WHERE plan_code = ? AND datacenter = ? AND status = ?`,
		record.PlanCode, record.Datacenter, record.Status); err != nil {
		return nil, fmt.Errorf("taskstore: failed to replace previous order entry: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO order_history (uid, plan_code, name, datacenter, status, order_id, order_url, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.UID, record.PlanCode, record.Name, record.Datacenter, record.Status,
		record.OrderID, record.OrderURL, record.Error,
		record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("taskstore: order insert failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("taskstore: commit failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("taskstore: failed to get last insert ID: %w", err)
	}
	record.ID = id
	return &record, nil
}

// ListOrders returns the order history, newest first.
func (q *SQLiteQueue) ListOrders() ([]OrderRecord, error) {
	rows, err := q.db.Query(`
		SELECT id, uid, plan_code, name, datacenter, status, order_id, order_url, error, created_at
		FROM order_history ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("taskstore: query failed: %w", err)
	}
	defer rows.Close()

	var records []OrderRecord
	for rows.Next() {
		record, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("taskstore: scan failed: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// ClearOrders removes the entire order history.
func (q *SQLiteQueue) ClearOrders() (int64, error) {
	result, err := q.db.Exec(`DELETE FROM order_history`)
	if err != nil {
		return 0, fmt.Errorf("taskstore: clear failed: %w", err)
	}
	return result.RowsAffected()
}

func scanOrder(rows *sql.Rows) (*OrderRecord, error) {
	var record OrderRecord
	var createdStr string
	err := rows.Scan(
		&record.ID, &record.UID, &record.PlanCode, &record.Name, &record.Datacenter,
		&record.Status, &record.OrderID, &record.OrderURL, &record.Error, &createdStr,
	)
	if err != nil {
		return nil, err
	}
	record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return &record, nil
}
