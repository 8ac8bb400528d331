package service

import (
	"go.uber.org/zap"

	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/pkg/metrics"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

// SubmitTask enqueues a new task for one of the caller's projects
func SubmitTask(userID int, req *model.TaskCreate) (*model.Task, error) {
	tt, err := repository.GetTaskType(req.TaskType)
	if err != nil {
		return nil, err
	}
	if tt == nil || !tt.IsActive {
		return nil, ErrUnknownTaskType
	}

	owned, err := repository.ProjectOwnedBy(req.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrUnauthorized
	}

	if req.DependantOn != "" {
		dep, err := repository.GetTask(req.DependantOn)
		if err != nil {
			return nil, err
		}
		if dep == nil {
			return nil, ErrTaskNotFound
		}
	}

	task := &model.Task{
		TaskType:    req.TaskType,
		Params:      req.Params,
		ProjectID:   req.ProjectID,
		DependantOn: req.DependantOn,
	}
	if err := repository.CreateTask(task); err != nil {
		return nil, err
	}

	metrics.TasksEnqueued.WithLabelValues(task.TaskType).Inc()
	zap.L().Info("task enqueued",
		zap.String("task_id", task.ID),
		zap.String("task_type", task.TaskType),
		zap.String("project_id", task.ProjectID))
	return task, nil
}

// GetTaskForUser returns a task only if the caller owns its project
func GetTaskForUser(taskID string, userID int) (*model.Task, error) {
	task, err := repository.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	owned, err := repository.TaskOwnedBy(taskID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrUnauthorized
	}
	return task, nil
}

// CancelTaskForUser cancels a task after an ownership check
func CancelTaskForUser(taskID string, userID int) error {
	owned, err := repository.TaskOwnedBy(taskID, userID)
	if err != nil {
		return err
	}
	if !owned {
		task, err := repository.GetTask(taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return ErrTaskNotFound
		}
		return ErrUnauthorized
	}
	return CancelTask(taskID)
}

// EstimateCost previews the charge for a task type and expected usage
func EstimateCost(taskTypeID string, durationSeconds float64, unitCount int) (int64, error) {
	tt, err := repository.GetTaskType(taskTypeID)
	if err != nil {
		return 0, err
	}
	if tt == nil {
		return 0, ErrUnknownTaskType
	}
	return Cost(tt, durationSeconds, unitCount), nil
}
