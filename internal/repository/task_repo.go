package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banodoco/Reigh-sub009/internal/model"
)

// CreateTask inserts a new task in Queued state
func CreateTask(task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	paramsJSON, _ := json.Marshal(task.Params)

	query := `
		INSERT INTO tasks (id, task_type, params, project_id, status, attempts, dependant_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, 'Queued', 0, NULLIF(?, ''), ?, ?)
	`

	_, err := db.Exec(query, task.ID, task.TaskType, string(paramsJSON), task.ProjectID, task.DependantOn, now, now)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	task.Status = model.TaskStatusQueued
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

const taskColumns = `id, task_type, params, project_id, status, worker_id, attempts, dependant_on,
	created_at, updated_at, generation_started_at, generation_processed_at,
	error_message, output_location, result_data, generation_created`

func scanTask(row interface{ Scan(...interface{}) error }) (*model.Task, error) {
	task := &model.Task{}
	var params, workerID, dependantOn, startedAt, processedAt sql.NullString
	var errorMessage, outputLocation, resultData sql.NullString

	err := row.Scan(
		&task.ID, &task.TaskType, &params, &task.ProjectID, &task.Status,
		&workerID, &task.Attempts, &dependantOn,
		&task.CreatedAt, &task.UpdatedAt, &startedAt, &processedAt,
		&errorMessage, &outputLocation, &resultData, &task.GenerationCreated,
	)
	if err != nil {
		return nil, err
	}

	if params.Valid {
		json.Unmarshal([]byte(params.String), &task.Params)
	}
	if resultData.Valid {
		json.Unmarshal([]byte(resultData.String), &task.ResultData)
	}
	task.WorkerID = workerID.String
	task.DependantOn = dependantOn.String
	task.GenerationStartedAt = startedAt.String
	task.GenerationProcessedAt = processedAt.String
	task.ErrorMessage = errorMessage.String
	task.OutputLocation = outputLocation.String
	return task, nil
}

// GetTask returns a task by id, or nil when absent
func GetTask(id string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	task, err := scanTask(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetTaskTx returns a task by id within a transaction, or nil when absent
func GetTaskTx(tx *sql.Tx, id string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	task, err := scanTask(tx.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// TaskOwnedBy reports whether the task's project belongs to the user
func TaskOwnedBy(taskID string, userID int) (bool, error) {
	var exists int
	query := `
		SELECT 1 FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.id = ? AND p.user_id = ?
	`
	err := db.QueryRow(query, taskID, userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// eligibleWhere builds the claim eligibility predicate. A zero userID means no
// ownership restriction (service-role scope); an empty runType is a wildcard.
func eligibleWhere(runType string, userID int, maxAttempts int) (string, []interface{}) {
	where := `
		t.status = 'Queued'
		AND tt.is_active = 1
		AND t.attempts < ?
		AND (t.dependant_on IS NULL
			OR EXISTS (SELECT 1 FROM tasks d WHERE d.id = t.dependant_on AND d.status = 'Complete'))
	`
	args := []interface{}{maxAttempts}

	if runType != "" {
		where += " AND tt.run_type = ?"
		args = append(args, runType)
	}
	if userID != 0 {
		where += " AND EXISTS (SELECT 1 FROM projects p WHERE p.id = t.project_id AND p.user_id = ?)"
		args = append(args, userID)
	}
	return where, args
}

// NextEligibleTaskIDs returns up to limit claimable task ids, oldest first
func NextEligibleTaskIDs(runType string, userID int, maxAttempts int, limit int) ([]string, error) {
	where, args := eligibleWhere(runType, userID, maxAttempts)
	query := fmt.Sprintf(`
		SELECT t.id FROM tasks t
		JOIN task_types tt ON tt.id = t.task_type
		WHERE %s
		ORDER BY t.created_at ASC, t.id ASC
		LIMIT ?
	`, where)
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountEligible counts claimable tasks for a scope
func CountEligible(runType string, userID int, maxAttempts int) (int, error) {
	where, args := eligibleWhere(runType, userID, maxAttempts)
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM tasks t
		JOIN task_types tt ON tt.id = t.task_type
		WHERE %s
	`, where)

	var count int
	err := db.QueryRow(query, args...).Scan(&count)
	return count, err
}

// ClaimTask transitions one task Queued -> In Progress for a worker. The
// status guard in the WHERE clause makes the transition a compare-and-swap:
// of any number of concurrent claimants for the same id, exactly one sees a
// row change.
func ClaimTask(id, workerID string) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		UPDATE tasks
		SET status = 'In Progress',
			worker_id = ?,
			generation_started_at = ?,
			updated_at = ?
		WHERE id = ? AND status = 'Queued'
	`
	result, err := db.Exec(query, workerID, now, now, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ActiveTaskForWorker returns the In Progress task currently owned by a
// worker, if any. Used for idempotent re-fetch after a dropped response.
func ActiveTaskForWorker(workerID string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE status = 'In Progress' AND worker_id = ? ORDER BY generation_started_at ASC LIMIT 1`
	task, err := scanTask(db.QueryRow(query, workerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// MarkCompleteTx applies the In Progress -> Complete transition within a
// transaction, guarded on current ownership
func MarkCompleteTx(tx *sql.Tx, id, workerID, outputLocation string, resultData map[string]interface{}) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	resultJSON, _ := json.Marshal(resultData)

	query := `
		UPDATE tasks
		SET status = 'Complete',
			generation_processed_at = ?,
			output_location = ?,
			result_data = ?,
			generation_created = 1,
			updated_at = ?
		WHERE id = ? AND status = 'In Progress' AND worker_id = ?
	`
	result, err := tx.Exec(query, now, outputLocation, string(resultJSON), now, id, workerID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// MarkFailedTx applies the In Progress -> Failed transition within a
// transaction, guarded on current ownership
func MarkFailedTx(tx *sql.Tx, id, workerID, errorMessage string) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		UPDATE tasks
		SET status = 'Failed',
			error_message = ?,
			generation_processed_at = ?,
			updated_at = ?
		WHERE id = ? AND status = 'In Progress' AND worker_id = ?
	`
	result, err := tx.Exec(query, errorMessage, now, now, id, workerID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// CancelTaskTx transitions a Queued or In Progress task to Cancelled
func CancelTaskTx(tx *sql.Tx, id string) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		UPDATE tasks
		SET status = 'Cancelled', updated_at = ?
		WHERE id = ? AND status IN ('Queued', 'In Progress')
	`
	result, err := tx.Exec(query, now, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// OrphanCandidate is an In Progress task whose owning worker is gone
type OrphanCandidate struct {
	ID       string
	TaskType string
	WorkerID string
	Attempts int
}

// OrphanedTasks returns In Progress tasks whose worker is missing,
// deregistered, or has not heartbeated since the cutoff
func OrphanedTasks(cutoff time.Time) ([]OrphanCandidate, error) {
	query := `
		SELECT t.id, t.task_type, t.worker_id, t.attempts
		FROM tasks t
		LEFT JOIN workers w ON w.id = t.worker_id
		WHERE t.status = 'In Progress'
		  AND (w.id IS NULL OR w.deregistered_at IS NOT NULL OR w.last_heartbeat < ?)
	`
	rows, err := db.Query(query, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orphans []OrphanCandidate
	for rows.Next() {
		var o OrphanCandidate
		if err := rows.Scan(&o.ID, &o.TaskType, &o.WorkerID, &o.Attempts); err != nil {
			return nil, err
		}
		orphans = append(orphans, o)
	}
	return orphans, rows.Err()
}

// RequeueOrphan returns an orphaned task to the queue, incrementing attempts.
// The status and worker guards keep a repeated sweep from double-counting:
// once requeued, the row no longer matches.
func RequeueOrphan(id, workerID string) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		UPDATE tasks
		SET status = 'Queued',
			worker_id = NULL,
			generation_started_at = NULL,
			attempts = attempts + 1,
			updated_at = ?
		WHERE id = ? AND status = 'In Progress' AND worker_id = ?
	`
	result, err := db.Exec(query, now, id, workerID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// FailOrphan forces an orphaned task to Failed once attempts are exhausted
func FailOrphan(id, workerID, errorMessage string) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		UPDATE tasks
		SET status = 'Failed',
			error_message = ?,
			updated_at = ?
		WHERE id = ? AND status = 'In Progress' AND worker_id = ?
	`
	result, err := db.Exec(query, errorMessage, now, id, workerID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// Availability returns queue depth with per-run_type and per-task_type breakdown
func Availability() (*model.TaskAvailability, error) {
	avail := &model.TaskAvailability{
		ByRunType:  make(map[string]int),
		ByTaskType: make(map[string]int),
	}

	err := db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE status = 'Queued'`).Scan(&avail.Queued)
	if err != nil {
		return nil, err
	}
	err = db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE status = 'In Progress'`).Scan(&avail.InProgress)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT tt.run_type, t.task_type, COUNT(*)
		FROM tasks t
		JOIN task_types tt ON tt.id = t.task_type
		WHERE t.status = 'Queued'
		GROUP BY tt.run_type, t.task_type
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var runType, taskType string
		var count int
		if err := rows.Scan(&runType, &taskType, &count); err != nil {
			return nil, err
		}
		avail.ByRunType[runType] += count
		avail.ByTaskType[taskType] += count
	}
	return avail, rows.Err()
}
