package model

// AccessToken represents a personal access token. Only the sha256 hash of the
// token is stored; the plaintext is shown once at creation.
type AccessToken struct {
	ID         string `json:"id" db:"id"`
	UserID     int    `json:"user_id" db:"user_id"`
	Name       string `json:"name" db:"name"`
	TokenHash  string `json:"-" db:"token_hash"`
	CreatedAt  string `json:"created_at" db:"created_at"`
	LastUsedAt string `json:"last_used_at,omitempty" db:"last_used_at"`
	RevokedAt  string `json:"revoked_at,omitempty" db:"revoked_at"`
}

// AccessTokenCreate represents a token issue request
type AccessTokenCreate struct {
	Name string `json:"name" binding:"required"`
}

// AccessTokenIssued carries the plaintext token back to the caller once
type AccessTokenIssued struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Token string `json:"token"`
}
