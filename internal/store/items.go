package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fialovy/redditpersona/internal/character"
)

// UpsertItems caches fetched items, replacing any stale copies.
func (db *DB) UpsertItems(items []character.RawItem) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now().UnixMilli()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO items (fullname, kind, author, body, title, parent_id, created_utc, score, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fullname) DO UPDATE SET
			author = excluded.author,
			body = excluded.body,
			title = excluded.title,
			parent_id = excluded.parent_id,
			created_utc = excluded.created_utc,
			score = excluded.score,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if item.Fullname == "" {
			continue
		}
		if _, err := stmt.Exec(item.Fullname, string(item.Kind), item.Author, item.Body,
			item.Title, item.ParentID, item.CreatedUTC, item.Score, now); err != nil {
			return fmt.Errorf("upsert %s: %w", item.Fullname, err)
		}
	}

	return tx.Commit()
}

// GetItem returns a cached item by fullname, or nil when not cached.
func (db *DB) GetItem(fullname string) (*character.RawItem, error) {
	var item character.RawItem
	var kind string
	err := db.QueryRow(`
		SELECT fullname, kind, author, body, title, parent_id, created_utc, score
		FROM items WHERE fullname = ?
	`, fullname).Scan(&item.Fullname, &kind, &item.Author, &item.Body, &item.Title,
		&item.ParentID, &item.CreatedUTC, &item.Score)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", fullname, err)
	}
	item.Kind = character.Kind(kind)
	return &item, nil
}

// CommentsByAuthor returns the author's cached comments, newest first.
func (db *DB) CommentsByAuthor(username string, limit int) ([]character.RawItem, error) {
	rows, err := db.Query(`
		SELECT fullname, kind, author, body, title, parent_id, created_utc, score
		FROM items
		WHERE kind = 'comment' AND author = ? COLLATE NOCASE
		ORDER BY created_utc DESC
		LIMIT ?
	`, username, limit)
	if err != nil {
		return nil, fmt.Errorf("comments by author: %w", err)
	}
	defer rows.Close()

	var items []character.RawItem
	for rows.Next() {
		var item character.RawItem
		var kind string
		if err := rows.Scan(&item.Fullname, &kind, &item.Author, &item.Body, &item.Title,
			&item.ParentID, &item.CreatedUTC, &item.Score); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.Kind = character.Kind(kind)
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountItems returns the number of cached items.
func (db *DB) CountItems() (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}
