package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/banodoco/Reigh-sub009/internal/model"
)

// CreateProject creates a project for a user
func CreateProject(project *model.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)

	query := `INSERT INTO projects (id, user_id, name, created_at) VALUES (?, ?, ?, ?)`
	_, err := db.Exec(query, project.ID, project.UserID, project.Name, now)
	if err != nil {
		return err
	}
	project.CreatedAt = now
	return nil
}

// GetProject returns a project by id, or nil when absent
func GetProject(id string) (*model.Project, error) {
	query := `SELECT id, user_id, name, created_at FROM projects WHERE id = ?`
	project := &model.Project{}
	err := db.QueryRow(query, id).Scan(&project.ID, &project.UserID, &project.Name, &project.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects returns a user's projects
func ListProjects(userID int) ([]model.Project, error) {
	query := `SELECT id, user_id, name, created_at FROM projects WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ProjectOwnedBy reports whether a project belongs to the user
func ProjectOwnedBy(projectID string, userID int) (bool, error) {
	var exists int
	err := db.QueryRow(`SELECT 1 FROM projects WHERE id = ? AND user_id = ?`, projectID, userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ProjectOwner returns the owning user id for a project
func ProjectOwner(projectID string) (int, error) {
	var userID int
	err := db.QueryRow(`SELECT user_id FROM projects WHERE id = ?`, projectID).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// ProjectOwnerTx returns the owning user id for a project within a transaction
func ProjectOwnerTx(tx *sql.Tx, projectID string) (int, error) {
	var userID int
	err := tx.QueryRow(`SELECT user_id FROM projects WHERE id = ?`, projectID).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}
