package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SystemStats returns aggregate platform counters — admin only
func SystemStats(c *gin.Context) {
	stats, err := db.GetSystemStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
