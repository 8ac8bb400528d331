package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banodoco/Reigh-sub009/internal/model"
)

// AppendLedgerEntry writes an immutable credit movement. There is no update
// or delete path anywhere in this package; corrections are new entries.
func AppendLedgerEntry(entry *model.LedgerEntry) error {
	return appendLedgerEntry(db, entry)
}

// AppendLedgerEntryTx appends within an existing transaction, so a spend can
// commit atomically with the task transition that earned it
func AppendLedgerEntryTx(tx *sql.Tx, entry *model.LedgerEntry) error {
	return appendLedgerEntry(tx, entry)
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func appendLedgerEntry(e execer, entry *model.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt == "" {
		entry.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	metadataJSON, _ := json.Marshal(entry.Metadata)

	query := `
		INSERT INTO credits_ledger (id, user_id, task_id, amount, type, metadata, created_at)
		VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?)
	`
	_, err := e.Exec(query, entry.ID, entry.UserID, entry.TaskID, entry.Amount, entry.Type, string(metadataJSON), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// Balance derives a user's balance as the sum of their entries. There is no
// cached balance column to drift from this.
func Balance(userID int) (int64, error) {
	var balance int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM credits_ledger WHERE user_id = ?`
	err := db.QueryRow(query, userID).Scan(&balance)
	return balance, err
}

// LedgerEntriesForUser returns a user's entries, newest first
func LedgerEntriesForUser(userID int) ([]model.LedgerEntry, error) {
	query := `
		SELECT id, user_id, task_id, amount, type, metadata, created_at
		FROM credits_ledger WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`
	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLedgerEntries(rows)
}

// LedgerEntriesForTask returns the entries referencing a task
func LedgerEntriesForTask(taskID string) ([]model.LedgerEntry, error) {
	query := `
		SELECT id, user_id, task_id, amount, type, metadata, created_at
		FROM credits_ledger WHERE task_id = ? ORDER BY created_at ASC
	`
	rows, err := db.Query(query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLedgerEntries(rows)
}

func scanLedgerEntries(rows *sql.Rows) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	for rows.Next() {
		var entry model.LedgerEntry
		var taskID, metadata sql.NullString
		if err := rows.Scan(&entry.ID, &entry.UserID, &taskID, &entry.Amount, &entry.Type, &metadata, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.TaskID = taskID.String
		if metadata.Valid {
			json.Unmarshal([]byte(metadata.String), &entry.Metadata)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
