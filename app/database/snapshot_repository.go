package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/opencivi/bill-comb/app/diff"
	"github.com/opencivi/bill-comb/app/legislation"
)

var _ SnapshotRepository = (*snapshotRepository)(nil)

// snapshotRepository handles database operations for snapshots and detected
// changes
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// SaveSnapshot stores the current bill summaries for a tier.
func (r *snapshotRepository) SaveSnapshot(tier string, summaries []legislation.Summary) error {
	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO snapshots (tier, data) VALUES (?, ?)
	`, tier, string(data))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// GetLatestSnapshot returns the most recent snapshot for a tier, or nil if
// none has been taken yet.
func (r *snapshotRepository) GetLatestSnapshot(tier string) ([]legislation.Summary, error) {
	var data string
	err := r.db.QueryRow(`
		SELECT data
		FROM snapshots
		WHERE tier = ?
		ORDER BY taken_at DESC, id DESC
		LIMIT 1
	`, tier).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	var summaries []legislation.Summary
	if err := json.Unmarshal([]byte(data), &summaries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return summaries, nil
}

// SaveChanges stores detected changes for a tier, one row per changed bill.
func (r *snapshotRepository) SaveChanges(tier string, changes []diff.Change) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO changes (tier, bill_id, differences) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, change := range changes {
		differences, err := json.Marshal(change.Differences)
		if err != nil {
			return fmt.Errorf("failed to marshal differences: %w", err)
		}

		if _, err := stmt.Exec(tier, change.ID, string(differences)); err != nil {
			return fmt.Errorf("failed to insert change: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit changes: %w", err)
	}

	return nil
}

// GetRecentChanges returns the most recently detected changes, optionally
// restricted to one tier. An empty tier means all tiers.
func (r *snapshotRepository) GetRecentChanges(tier string, limit int) ([]StoredChange, error) {
	query := `
		SELECT id, tier, bill_id, differences, detected_at
		FROM changes
		ORDER BY detected_at DESC, id DESC
		LIMIT ?
	`
	args := []interface{}{limit}

	if tier != "" {
		query = `
			SELECT id, tier, bill_id, differences, detected_at
			FROM changes
			WHERE tier = ?
			ORDER BY detected_at DESC, id DESC
			LIMIT ?
		`
		args = []interface{}{tier, limit}
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer rows.Close()

	var changes []StoredChange
	for rows.Next() {
		var change StoredChange
		if err := rows.Scan(&change.ID, &change.Tier, &change.BillID, &change.Differences, &change.DetectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		changes = append(changes, change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate changes: %w", err)
	}

	return changes, nil
}

func (r *snapshotRepository) GetChangeCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM changes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count changes: %w", err)
	}
	return count, nil
}
