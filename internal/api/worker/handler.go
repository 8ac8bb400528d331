package worker

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/banodoco/Reigh-sub009/internal/api/auth"
	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/repository"
	"github.com/banodoco/Reigh-sub009/internal/service"
)

// Claim hands the next eligible task to the polling worker. An empty pool is
// a 200 with a null task, not an error; workers just poll again.
func Claim(c *gin.Context) {
	var req model.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if !service.PollAllowed(req.WorkerID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"detail": "Polling too fast"})
		return
	}

	task, err := service.ClaimNext(auth.Scope(c), &req)
	if err != nil {
		if err == service.ErrUnauthorized {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Caller scope cannot be resolved"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Heartbeat ingests worker liveness and utilization. First contact
// registers the worker.
func Heartbeat(c *gin.Context) {
	var req model.HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var metadata map[string]interface{}
	if req.VRAMTotalMB > 0 {
		metadata = map[string]interface{}{
			"vram_used_mb":  req.VRAMUsedMB,
			"vram_total_mb": req.VRAMTotalMB,
		}
	}

	if err := repository.UpsertHeartbeat(req.WorkerID, req.InstanceType, metadata); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Complete applies a worker's success report
func Complete(c *gin.Context) {
	var req model.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	taskID := c.Param("task_id")
	if !callerMayReport(c, taskID) {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Task does not belong to caller"})
		return
	}

	if err := service.CompleteTask(taskID, &req); err != nil {
		respondOutcomeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Fail applies a worker's failure report
func Fail(c *gin.Context) {
	var req model.FailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	taskID := c.Param("task_id")
	if !callerMayReport(c, taskID) {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Task does not belong to caller"})
		return
	}

	if err := service.FailTask(taskID, &req); err != nil {
		respondOutcomeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// callerMayReport restricts user-scoped callers to their own tasks. The
// service role reports on any task; worker ownership is still enforced by
// the reconciler.
func callerMayReport(c *gin.Context, taskID string) bool {
	scope := auth.Scope(c)
	if scope.Class == service.ServiceRole {
		return true
	}
	owned, err := repository.TaskOwnedBy(taskID, scope.UserID)
	if err != nil {
		return false
	}
	return owned
}

func respondOutcomeError(c *gin.Context, err error) {
	switch err {
	case service.ErrTaskNotFound:
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
	case service.ErrStaleOwnership:
		c.JSON(http.StatusConflict, gin.H{"detail": "Task is no longer owned by this worker"})
	case service.ErrInvalidTransition:
		c.JSON(http.StatusConflict, gin.H{"detail": "Task is already in a terminal state"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}
