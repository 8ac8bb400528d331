package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/banodoco/Reigh-sub009/internal/model"
	"github.com/banodoco/Reigh-sub009/internal/pkg/config"
	"github.com/banodoco/Reigh-sub009/internal/pkg/jwt"
	"github.com/banodoco/Reigh-sub009/internal/repository"
	"github.com/banodoco/Reigh-sub009/internal/service"
)

var (
	registerLimiter = service.NewRequestRateLimit(5*time.Minute, 10)
)

// Register handles user registration
func Register(c *gin.Context) {
	var req model.UserRegister
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	clientIP := c.ClientIP()
	if !registerLimiter.Check(clientIP) {
		c.JSON(http.StatusTooManyRequests, gin.H{"detail": "Too many registration requests. Try again later."})
		return
	}

	tokenResp, err := service.Register(req.Username, req.Password, req.Email)
	if err != nil {
		if err == service.ErrUsernameExists {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tokenResp)
}

// Login handles user login
func Login(c *gin.Context) {
	var req model.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	tokenResp, err := service.Login(req.Username, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tokenResp)
}

// GetCurrentUser returns the current user
func GetCurrentUser(c *gin.Context) {
	userID := c.GetInt("user_id")

	user, err := service.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	c.JSON(http.StatusOK, &model.UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// IssueToken mints a personal access token for the session user
func IssueToken(c *gin.Context) {
	var req model.AccessTokenCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	issued, err := service.IssueAccessToken(c.GetInt("user_id"), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, issued)
}

// ListTokens lists the session user's personal access tokens
func ListTokens(c *gin.Context) {
	tokens, err := repository.ListAccessTokens(c.GetInt("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// RevokeToken revokes one of the session user's personal access tokens
func RevokeToken(c *gin.Context) {
	revoked, err := repository.RevokeAccessToken(c.Param("token_id"), c.GetInt("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if !revoked {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Token not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": true})
}

// SessionMiddleware validates a session JWT only. Used for account-surface
// routes where a personal access token is not acceptable (e.g. minting more
// tokens).
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			if err == jwt.ErrExpiredToken {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("caller_class", string(service.UserSession))
		c.Next()
	}
}

// UserMiddleware accepts a session JWT or a personal access token and
// resolves either to a user id.
func UserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
			c.Abort()
			return
		}

		if strings.HasPrefix(token, service.TokenPrefix) {
			pat, err := service.ResolveAccessToken(token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
				c.Abort()
				return
			}
			c.Set("user_id", pat.UserID)
			c.Set("caller_class", string(service.PersonalToken))
			c.Next()
			return
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			c.Abort()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("caller_class", string(service.UserSession))
		c.Next()
	}
}

// CallerMiddleware resolves any of the three caller classes: service key,
// personal access token, or session JWT. Used on the polling surface where
// all worker kinds arrive.
func CallerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isServiceCaller(c) {
			c.Set("caller_class", string(service.ServiceRole))
			c.Next()
			return
		}
		UserMiddleware()(c)
	}
}

// ServiceMiddleware admits only the service key. Used for operator surfaces.
func ServiceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isServiceCaller(c) {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Service access required"})
			c.Abort()
			return
		}
		c.Set("caller_class", string(service.ServiceRole))
		c.Next()
	}
}

// Scope builds the claim eligibility filter from the resolved caller
func Scope(c *gin.Context) service.EligibilityFilter {
	return service.EligibilityFilter{
		Class:  service.CallerClass(c.GetString("caller_class")),
		UserID: c.GetInt("user_id"),
	}
}

func isServiceCaller(c *gin.Context) bool {
	cfg := config.Get()
	if cfg == nil || cfg.Auth.ServiceKey == "" {
		return false
	}
	if c.GetHeader("X-Service-Key") == cfg.Auth.ServiceKey {
		return true
	}
	token, err := bearerToken(c)
	return err == nil && token == cfg.Auth.ServiceKey
}

func bearerToken(c *gin.Context) (string, error) {
	return jwt.ExtractTokenFromHeader(c.GetHeader("Authorization"))
}
