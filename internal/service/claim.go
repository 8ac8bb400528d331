package service

import (
	"go.uber.org/zap"

	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/pkg/config"
	"github.com/banodoco/Reigh-sub009/internal/pkg/metrics"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

// CallerClass distinguishes the three claim façades. They differ only in the
// eligibility filter, never in claim semantics.
type CallerClass string

const (
	ServiceRole   CallerClass = "service_role"
	UserSession   CallerClass = "user_session"
	PersonalToken CallerClass = "personal_token"
)

// EligibilityFilter is the caller scope applied to the claim predicate
type EligibilityFilter struct {
	Class  CallerClass
	UserID int
}

// ownerID returns the ownership restriction for the scope; zero means none.
func (f EligibilityFilter) ownerID() int {
	if f.Class == ServiceRole {
		return 0
	}
	return f.UserID
}

// candidateBatch is how many eligible ids one claim iteration fetches, so
// concurrent pollers that lose the compare-and-swap on the head of the queue
// can fall through to the next row without another round trip.
const candidateBatch = 5

func queueSettings() (claimRetries, maxAttempts int) {
	claimRetries, maxAttempts = 3, 3
	if cfg := config.Get(); cfg != nil {
		if cfg.Queue.ClaimRetries > 0 {
			claimRetries = cfg.Queue.ClaimRetries
		}
		if cfg.Queue.MaxAttempts > 0 {
			maxAttempts = cfg.Queue.MaxAttempts
		}
	}
	return
}

// ClaimNext atomically selects one eligible task and hands it to the worker.
// A nil result with a nil error means nothing is eligible; callers poll
// again later. Polling doubles as a liveness signal, so the worker's
// heartbeat is refreshed before claiming.
func ClaimNext(filter EligibilityFilter, req *model.ClaimRequest) (*model.ClaimedTask, error) {
	if filter.Class != ServiceRole && filter.UserID == 0 {
		return nil, ErrUnauthorized
	}

	if err := repository.TouchHeartbeat(req.WorkerID); err != nil {
		return nil, err
	}

	if req.IncludeActive {
		active, err := activeTaskInScope(filter, req.WorkerID)
		if err != nil {
			return nil, err
		}
		if active != nil {
			return active, nil
		}
	}

	claimRetries, maxAttempts := queueSettings()

	for i := 0; i < claimRetries; i++ {
		ids, err := repository.NextEligibleTaskIDs(req.RunType, filter.ownerID(), maxAttempts, candidateBatch)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			metrics.ClaimsEmpty.WithLabelValues(string(filter.Class)).Inc()
			return nil, nil
		}

		for _, id := range ids {
			won, err := repository.ClaimTask(id, req.WorkerID)
			if err != nil {
				return nil, err
			}
			if !won {
				// Lost the compare-and-swap to a concurrent claimant.
				continue
			}

			task, err := repository.GetTask(id)
			if err != nil {
				return nil, err
			}
			metrics.ClaimsGranted.WithLabelValues(string(filter.Class)).Inc()
			zap.L().Debug("task claimed",
				zap.String("task_id", id),
				zap.String("worker_id", req.WorkerID),
				zap.String("caller_class", string(filter.Class)))
			return &model.ClaimedTask{
				TaskID:    task.ID,
				TaskType:  task.TaskType,
				Params:    task.Params,
				ProjectID: task.ProjectID,
			}, nil
		}
	}

	// Every candidate in every round went to someone else. The pool is
	// contended, not empty; the caller simply polls again.
	metrics.ClaimsEmpty.WithLabelValues(string(filter.Class)).Inc()
	return nil, nil
}

func activeTaskInScope(filter EligibilityFilter, workerID string) (*model.ClaimedTask, error) {
	task, err := repository.ActiveTaskForWorker(workerID)
	if err != nil || task == nil {
		return nil, err
	}
	if owner := filter.ownerID(); owner != 0 {
		owned, err := repository.TaskOwnedBy(task.ID, owner)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, nil
		}
	}
	return &model.ClaimedTask{
		TaskID:    task.ID,
		TaskType:  task.TaskType,
		Params:    task.Params,
		ProjectID: task.ProjectID,
	}, nil
}

// CountEligible counts the tasks a scope could claim right now
func CountEligible(filter EligibilityFilter, runType string) (int, error) {
	if filter.Class != ServiceRole && filter.UserID == 0 {
		return 0, ErrUnauthorized
	}
	_, maxAttempts := queueSettings()
	return repository.CountEligible(runType, filter.ownerID(), maxAttempts)
}
