package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/banodoco/Reigh-sub009/internal/model"
)

// CreateAccessToken stores a personal access token hash
func CreateAccessToken(token *model.AccessToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)

	query := `INSERT INTO access_tokens (id, user_id, name, token_hash, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := db.Exec(query, token.ID, token.UserID, token.Name, token.TokenHash, now)
	if err != nil {
		return err
	}
	token.CreatedAt = now
	return nil
}

// AccessTokenByHash returns the unrevoked token matching a hash, or nil
func AccessTokenByHash(hash string) (*model.AccessToken, error) {
	query := `
		SELECT id, user_id, name, token_hash, created_at, last_used_at, revoked_at
		FROM access_tokens WHERE token_hash = ? AND revoked_at IS NULL
	`
	token := &model.AccessToken{}
	var lastUsed, revoked sql.NullString

	err := db.QueryRow(query, hash).Scan(
		&token.ID, &token.UserID, &token.Name, &token.TokenHash,
		&token.CreatedAt, &lastUsed, &revoked,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	token.LastUsedAt = lastUsed.String
	token.RevokedAt = revoked.String
	return token, nil
}

// ListAccessTokens returns a user's tokens, revoked ones included
func ListAccessTokens(userID int) ([]model.AccessToken, error) {
	query := `
		SELECT id, user_id, name, token_hash, created_at, last_used_at, revoked_at
		FROM access_tokens WHERE user_id = ? ORDER BY created_at DESC
	`
	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []model.AccessToken
	for rows.Next() {
		var token model.AccessToken
		var lastUsed, revoked sql.NullString
		if err := rows.Scan(&token.ID, &token.UserID, &token.Name, &token.TokenHash,
			&token.CreatedAt, &lastUsed, &revoked); err != nil {
			return nil, err
		}
		token.LastUsedAt = lastUsed.String
		token.RevokedAt = revoked.String
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// RevokeAccessToken revokes a user's token by id
func RevokeAccessToken(id string, userID int) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	result, err := db.Exec(`UPDATE access_tokens SET revoked_at = ? WHERE id = ? AND user_id = ? AND revoked_at IS NULL`, now, id, userID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// TouchAccessToken records token use
func TouchAccessToken(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.Exec(`UPDATE access_tokens SET last_used_at = ? WHERE id = ?`, now, id)
	return err
}
