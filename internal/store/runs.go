package store

import (
	"fmt"
	"time"
)

// Run records one definition generation for the history command and API.
type Run struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Length    int    `json:"length"`
	Included  int    `json:"included"`
	Truncated bool   `json:"truncated"`
	CreatedAt int64  `json:"created_at"`
}

// RecordRun stores a completed generation run.
func (db *DB) RecordRun(run Run) error {
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixMilli()
	}
	_, err := db.Exec(`
		INSERT INTO runs (id, username, length, included, truncated, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Username, run.Length, run.Included, boolToInt(run.Truncated), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent generation runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT id, username, length, included, truncated, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var truncated int
		if err := rows.Scan(&r.ID, &r.Username, &r.Length, &r.Included, &truncated, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Truncated = truncated != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
