// Package confirmstore persists confirmed option selections per plan.
//
// When a user validates a configuration against live inventory, the exact
// option snapshot is saved keyed by plan code so a later session can
// restore it and start out already confirmed. Last write wins; there is
// no versioning.
//
// Storage is backed by a SQLite database at ~/.config/ecosniper/ecosniper.db
// (shared with taskstore, separate table).
package confirmstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ecosniper/internal/database"
	"ecosniper/internal/domain"
	"ecosniper/internal/util"
)

// Repository defines the persistence interface for confirmed selections.
// It satisfies selection.SnapshotStore.
type Repository interface {
	// SaveConfirmed upserts the confirmed option snapshot for a plan.
	SaveConfirmed(planCode string, options []domain.AddonOption) error

	// LoadConfirmed returns the snapshot for a plan, with found=false
	// when none was ever saved.
	LoadConfirmed(planCode string) (options []domain.AddonOption, found bool, err error)

	// Delete removes the snapshot for a plan, if any.
	Delete(planCode string) error

	// Close releases database resources.
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
// The parent directory is created if it does not exist.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

// migrate creates the confirmed_selections table if it doesn't exist.
func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS confirmed_selections (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_code    TEXT NOT NULL UNIQUE,
			options      TEXT NOT NULL DEFAULT '[]',
			confirmed_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("confirmstore: migration failed: %w", err)
	}
	return nil
}

// SaveConfirmed upserts the confirmed option snapshot for a plan.
func (r *SQLiteRepository) SaveConfirmed(planCode string, options []domain.AddonOption) error {
	key := util.NormalizeKey(planCode)
	if key == "" {
		return fmt.Errorf("confirmstore: plan code is required")
	}

	if options == nil {
		options = []domain.AddonOption{}
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("confirmstore: failed to encode options: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO confirmed_selections (plan_code, options, confirmed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(plan_code) DO UPDATE SET
			options = excluded.options,
			confirmed_at = excluded.confirmed_at`,
		key, string(encoded), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("confirmstore: upsert failed: %w", err)
	}
	return nil
}

// LoadConfirmed returns the snapshot for a plan, or found=false.
func (r *SQLiteRepository) LoadConfirmed(planCode string) ([]domain.AddonOption, bool, error) {
	row := r.db.QueryRow(`
		SELECT options FROM confirmed_selections WHERE plan_code = ?`,
		util.NormalizeKey(planCode))

	var encoded string
	err := row.Scan(&encoded)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("confirmstore: query failed: %w", err)
	}

	var options []domain.AddonOption
	if err := json.Unmarshal([]byte(encoded), &options); err != nil {
		return nil, false, fmt.Errorf("confirmstore: failed to decode options: %w", err)
	}
	return options, true, nil
}

// Delete removes the snapshot for a plan, if any.
func (r *SQLiteRepository) Delete(planCode string) error {
	_, err := r.db.Exec(`DELETE FROM confirmed_selections WHERE plan_code = ?`,
		util.NormalizeKey(planCode))
	if err != nil {
		return fmt.Errorf("confirmstore: delete failed: %w", err)
	}
	return nil
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
