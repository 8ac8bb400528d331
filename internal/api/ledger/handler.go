package ledger

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/banodoco/Reigh-sub009/internal/repository"
	"github.com/banodoco/Reigh-sub009/internal/service"
)

// Balance returns the caller's derived credit balance
func Balance(c *gin.Context) {
	balance, err := service.GetBalance(c.GetInt("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, balance)
}

// Entries returns the caller's ledger entries, newest first
func Entries(c *gin.Context) {
	entries, err := repository.LedgerEntriesForUser(c.GetInt("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
