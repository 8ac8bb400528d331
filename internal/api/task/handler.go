package task

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/banodoco/Reigh-sub009/internal/api/auth"
	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/repository"
	"github.com/banodoco/Reigh-sub009/internal/service"
)

// Submit enqueues a new task
func Submit(c *gin.Context) {
	var req model.TaskCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	task, err := service.SubmitTask(c.GetInt("user_id"), &req)
	if err != nil {
		switch err {
		case service.ErrUnknownTaskType:
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown or inactive task type"})
		case service.ErrUnauthorized:
			c.JSON(http.StatusForbidden, gin.H{"detail": "Project does not belong to caller"})
		case service.ErrTaskNotFound:
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Dependency task not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, task)
}

// Get returns a task owned by the caller
func Get(c *gin.Context) {
	task, err := service.GetTaskForUser(c.Param("task_id"), c.GetInt("user_id"))
	if err != nil {
		switch err {
		case service.ErrTaskNotFound:
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
		case service.ErrUnauthorized:
			c.JSON(http.StatusForbidden, gin.H{"detail": "Task does not belong to caller"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, task)
}

// Cancel transitions a caller-owned task to Cancelled
func Cancel(c *gin.Context) {
	err := service.CancelTaskForUser(c.Param("task_id"), c.GetInt("user_id"))
	if err != nil {
		switch err {
		case service.ErrTaskNotFound:
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
		case service.ErrUnauthorized:
			c.JSON(http.StatusForbidden, gin.H{"detail": "Task does not belong to caller"})
		case service.ErrInvalidTransition:
			c.JSON(http.StatusConflict, gin.H{"detail": "Task is already in a terminal state"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// Availability reports queue depth for operator dashboards
func Availability(c *gin.Context) {
	avail, err := repository.Availability()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, avail)
}

// EligibleCount counts tasks claimable by the caller's scope
func EligibleCount(c *gin.Context) {
	count, err := service.CountEligible(auth.Scope(c), c.Query("run_type"))
	if err != nil {
		if err == service.ErrUnauthorized {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Caller scope cannot be resolved"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// CostEstimate previews the charge for a task type and expected usage
func CostEstimate(c *gin.Context) {
	taskType := c.Query("task_type")
	if taskType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "task_type is required"})
		return
	}
	duration, _ := strconv.ParseFloat(c.Query("duration_seconds"), 64)
	units, _ := strconv.Atoi(c.Query("unit_count"))

	amount, err := service.EstimateCost(taskType, duration, units)
	if err != nil {
		if err == service.ErrUnknownTaskType {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Unknown task type"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task_type": taskType, "amount": amount})
}
