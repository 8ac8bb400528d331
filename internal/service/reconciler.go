package service

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/pkg/metrics"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

// CompleteTask applies a worker's success report. The task transition and
// the spend ledger entry commit in one transaction, so a billable task can
// never be Complete without its spend entry.
func CompleteTask(taskID string, req *model.CompleteRequest) error {
	taskType, duration, err := validateAndApply(taskID, req.WorkerID, func(tx *sql.Tx, task *model.Task) error {
		ok, err := repository.MarkCompleteTx(tx, taskID, req.WorkerID, req.OutputLocation, req.ResultData)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStaleOwnership
		}

		tt, err := repository.GetTaskType(task.TaskType)
		if err != nil {
			return err
		}
		if tt == nil {
			return ErrUnknownTaskType
		}

		seconds := durationSeconds(task.GenerationStartedAt)
		cost := Cost(tt, seconds, req.UnitCount)
		if cost == 0 {
			return nil
		}

		owner, err := repository.ProjectOwnerTx(tx, task.ProjectID)
		if err != nil {
			return err
		}
		return repository.AppendLedgerEntryTx(tx, &model.LedgerEntry{
			UserID: owner,
			TaskID: taskID,
			Amount: -cost,
			Type:   model.EntryTypeSpend,
			Metadata: map[string]interface{}{
				"task_type":        task.TaskType,
				"duration_seconds": seconds,
			},
		})
	})
	if err != nil {
		return err
	}

	metrics.TasksFinished.WithLabelValues(taskType, model.TaskStatusComplete).Inc()
	metrics.GenerationDuration.WithLabelValues(taskType).Observe(duration)
	zap.L().Info("task completed",
		zap.String("task_id", taskID),
		zap.String("worker_id", req.WorkerID))
	return nil
}

// FailTask applies a worker's failure report. No charge is made.
func FailTask(taskID string, req *model.FailRequest) error {
	taskType, _, err := validateAndApply(taskID, req.WorkerID, func(tx *sql.Tx, task *model.Task) error {
		ok, err := repository.MarkFailedTx(tx, taskID, req.WorkerID, req.ErrorMessage)
		if err != nil {
			return err
		}
		if !ok {
			return ErrStaleOwnership
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.TasksFinished.WithLabelValues(taskType, model.TaskStatusFailed).Inc()
	zap.L().Info("task failed",
		zap.String("task_id", taskID),
		zap.String("worker_id", req.WorkerID),
		zap.String("error", req.ErrorMessage))
	return nil
}

// validateAndApply runs the shared ownership validation and the outcome
// mutation inside one transaction
func validateAndApply(taskID, workerID string, apply func(*sql.Tx, *model.Task) error) (taskType string, duration float64, err error) {
	err = repository.WithTx(func(tx *sql.Tx) error {
		task, err := repository.GetTaskTx(tx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return ErrTaskNotFound
		}
		if model.IsTerminalStatus(task.Status) {
			return ErrInvalidTransition
		}
		if task.Status != model.TaskStatusInProgress || task.WorkerID != workerID {
			// Requeued and possibly reassigned since this worker last saw it.
			return ErrStaleOwnership
		}

		taskType = task.TaskType
		duration = durationSeconds(task.GenerationStartedAt)
		return apply(tx, task)
	})
	return taskType, duration, err
}

// CancelTask transitions a Queued or In Progress task to Cancelled
func CancelTask(taskID string) error {
	return repository.WithTx(func(tx *sql.Tx) error {
		task, err := repository.GetTaskTx(tx, taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return ErrTaskNotFound
		}
		if model.IsTerminalStatus(task.Status) {
			return ErrInvalidTransition
		}
		ok, err := repository.CancelTaskTx(tx, taskID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		return nil
	})
}

func durationSeconds(startedAt string) float64 {
	if startedAt == "" {
		return 0
	}
	start, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return 0
	}
	seconds := time.Since(start).Seconds()
	if seconds < 0 {
		return 0
	}
	return seconds
}
