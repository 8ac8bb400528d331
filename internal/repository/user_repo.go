package repository

import (
	"database/sql"
	"time"

	"github.com/banodoco/Reigh-sub009/internal/model"
)

// UserExists checks if a username is taken
func UserExists(username string) (bool, error) {
	var exists int
	err := db.QueryRow(`SELECT 1 FROM users WHERE username = ?`, username).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateUser creates a new user and returns its id
func CreateUser(username, passwordHash, email string) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `INSERT INTO users (username, password_hash, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	result, err := db.Exec(query, username, passwordHash, email, now, now)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// VerifyUser returns the user matching username and password hash, or nil
func VerifyUser(username, passwordHash string) (*model.User, error) {
	query := `SELECT id, username, password_hash, email, created_at, updated_at FROM users WHERE username = ? AND password_hash = ?`
	user := &model.User{}
	var email sql.NullString

	err := db.QueryRow(query, username, passwordHash).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &email, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.Email = email.String
	return user, nil
}

// GetUserByID returns a user by id, or nil when absent
func GetUserByID(id int) (*model.User, error) {
	query := `SELECT id, username, password_hash, email, created_at, updated_at FROM users WHERE id = ?`
	user := &model.User{}
	var email sql.NullString

	err := db.QueryRow(query, id).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &email, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.Email = email.String
	return user, nil
}
