package model

// Project scopes tasks to a tenant
type Project struct {
	ID        string `json:"id" db:"id"`
	UserID    int    `json:"user_id" db:"user_id"`
	Name      string `json:"name" db:"name"`
	CreatedAt string `json:"created_at" db:"created_at"`
}

// ProjectCreate represents a project creation request
type ProjectCreate struct {
	Name string `json:"name" binding:"required"`
}
