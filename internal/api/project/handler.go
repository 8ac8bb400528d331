package project

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

// Create creates a project for the current user
func Create(c *gin.Context) {
	var req model.ProjectCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	p := &model.Project{
		UserID: c.GetInt("user_id"),
		Name:   req.Name,
	}
	if err := repository.CreateProject(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, p)
}

// List returns the current user's projects
func List(c *gin.Context) {
	projects, err := repository.ListProjects(c.GetInt("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Get returns one of the current user's projects
func Get(c *gin.Context) {
	p, err := repository.GetProject(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if p == nil || p.UserID != c.GetInt("user_id") {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}
