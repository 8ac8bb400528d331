package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/banodoco/Reigh-sub009/internal/model"
)

// UpsertHeartbeat registers a worker on first contact and refreshes its
// liveness afterwards. Re-heartbeating clears a prior deregistration.
func UpsertHeartbeat(workerID, instanceType string, metadata map[string]interface{}) error {
	now := time.Now().UTC().Format(time.RFC3339)
	metadataJSON, _ := json.Marshal(metadata)

	query := `
		INSERT INTO workers (id, instance_type, last_heartbeat, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET last_heartbeat = excluded.last_heartbeat,
			instance_type = CASE WHEN excluded.instance_type != '' THEN excluded.instance_type ELSE workers.instance_type END,
			metadata = excluded.metadata,
			deregistered_at = NULL
	`
	_, err := db.Exec(query, workerID, instanceType, now, string(metadataJSON), now)
	if err != nil {
		return fmt.Errorf("failed to upsert worker heartbeat: %w", err)
	}
	return nil
}

// TouchHeartbeat refreshes liveness without touching metadata
func TouchHeartbeat(workerID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO workers (id, instance_type, last_heartbeat, created_at)
		VALUES (?, '', ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET last_heartbeat = excluded.last_heartbeat,
			deregistered_at = NULL
	`
	_, err := db.Exec(query, workerID, now, now)
	if err != nil {
		return fmt.Errorf("failed to touch worker heartbeat: %w", err)
	}
	return nil
}

// GetWorker returns a worker by id, or nil when absent
func GetWorker(id string) (*model.Worker, error) {
	query := `SELECT id, instance_type, last_heartbeat, metadata, deregistered_at, created_at FROM workers WHERE id = ?`
	worker, err := scanWorker(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return worker, nil
}

// ListWorkers returns all worker rows
func ListWorkers() ([]model.Worker, error) {
	query := `SELECT id, instance_type, last_heartbeat, metadata, deregistered_at, created_at FROM workers ORDER BY last_heartbeat DESC`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []model.Worker
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *worker)
	}
	return workers, rows.Err()
}

// CountLive counts workers with a heartbeat newer than the cutoff
func CountLive(cutoff time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM workers WHERE deregistered_at IS NULL AND last_heartbeat >= ?`
	err := db.QueryRow(query, cutoff.UTC().Format(time.RFC3339)).Scan(&count)
	return count, err
}

// DeregisterWorker marks a worker as explicitly gone. The row is kept; health
// classification treats it as inactive from now on.
func DeregisterWorker(id string) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	result, err := db.Exec(`UPDATE workers SET deregistered_at = ? WHERE id = ? AND deregistered_at IS NULL`, now, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func scanWorker(row interface{ Scan(...interface{}) error }) (*model.Worker, error) {
	worker := &model.Worker{}
	var instanceType, metadata, deregisteredAt sql.NullString

	err := row.Scan(&worker.ID, &instanceType, &worker.LastHeartbeat, &metadata, &deregisteredAt, &worker.CreatedAt)
	if err != nil {
		return nil, err
	}

	worker.InstanceType = instanceType.String
	worker.DeregisteredAt = deregisteredAt.String
	if metadata.Valid {
		json.Unmarshal([]byte(metadata.String), &worker.Metadata)
	}
	return worker, nil
}
