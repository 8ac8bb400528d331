package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/pkg/jwt"
	"github.com/banodoco/Reigh-sub009/internal/repository"
)

// TokenPrefix marks a bearer credential as a personal access token rather
// than a session JWT.
const TokenPrefix = "pat_"

// Register creates a new user and returns a session token
func Register(username, password, email string) (*model.TokenResponse, error) {
	exists, err := repository.UserExists(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	passwordHash := hashSecret(password)

	userID, err := repository.CreateUser(username, passwordHash, email)
	if err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(userID, username)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User: &model.UserInfo{
			ID:       userID,
			Username: username,
			Email:    email,
		},
	}, nil
}

// Login authenticates a user and returns a session token
func Login(username, password string) (*model.TokenResponse, error) {
	passwordHash := hashSecret(password)

	user, err := repository.VerifyUser(username, passwordHash)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User: &model.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	}, nil
}

// GetUserByID returns user by ID
func GetUserByID(userID int) (*model.User, error) {
	user, err := repository.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// IssueAccessToken mints a personal access token for a user. Only the hash
// is stored; the plaintext is returned once and cannot be recovered.
func IssueAccessToken(userID int, name string) (*model.AccessTokenIssued, error) {
	plaintext := TokenPrefix + strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")

	token := &model.AccessToken{
		UserID:    userID,
		Name:      name,
		TokenHash: hashSecret(plaintext),
	}
	if err := repository.CreateAccessToken(token); err != nil {
		return nil, err
	}

	return &model.AccessTokenIssued{
		ID:    token.ID,
		Name:  token.Name,
		Token: plaintext,
	}, nil
}

// ResolveAccessToken maps a bearer personal access token to its owner.
// Returns ErrUnauthorized for unknown or revoked tokens.
func ResolveAccessToken(plaintext string) (*model.AccessToken, error) {
	token, err := repository.AccessTokenByHash(hashSecret(plaintext))
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrUnauthorized
	}
	repository.TouchAccessToken(token.ID)
	return token, nil
}

// hashSecret hashes a password or token using SHA256
func hashSecret(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}
