package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/pkg/config"
	"github.com/banodoco/Reigh-sub009/internal/repository"
	"github.com/banodoco/Reigh-sub009/internal/service"
)

// AppendLedger records an operator credit movement (grant, purchase,
// refund, auto-topup)
func AppendLedger(c *gin.Context) {
	var req model.LedgerAppend
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	entry, err := service.AppendLedgerEntry(&req)
	if err != nil {
		switch err {
		case service.ErrInvalidEntry:
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid entry type or amount"})
		case service.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		case service.ErrTaskNotFound:
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ListWorkers returns the fleet with derived health
func ListWorkers(c *gin.Context) {
	workers, err := repository.ListWorkers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	cfg := config.Get()
	now := time.Now()
	for i := range workers {
		workers[i].Health = workers[i].ComputeHealth(now, cfg.StaleAfter(), cfg.DeadAfter())
	}

	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

// DeregisterWorker marks a worker as explicitly gone. Its in-flight tasks
// are recovered by the next monitor sweep.
func DeregisterWorker(c *gin.Context) {
	ok, err := repository.DeregisterWorker(c.Param("worker_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Worker not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deregistered": true})
}

// CreateTaskType adds an entry to the billing catalog
func CreateTaskType(c *gin.Context) {
	var req model.TaskTypeCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.BillingType != model.BillingPerDuration && req.BillingType != model.BillingPerUnit {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown billing type"})
		return
	}

	tt := &model.TaskType{
		ID:                req.ID,
		BillingType:       req.BillingType,
		BaseCostPerSecond: req.BaseCostPerSecond,
		UnitCost:          req.UnitCost,
		CostFactors:       req.CostFactors,
		RunType:           req.RunType,
	}
	if err := repository.CreateTaskType(tt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tt)
}

// ListTaskTypes returns the billing catalog
func ListTaskTypes(c *gin.Context) {
	types, err := repository.ListTaskTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task_types": types})
}

// UpdateTaskType applies a partial catalog update
func UpdateTaskType(c *gin.Context) {
	var req model.TaskTypeUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	updated, err := repository.UpdateTaskType(c.Param("type_id"), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task type not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
