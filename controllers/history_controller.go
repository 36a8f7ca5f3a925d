package controllers

import (
	"net/http"

	"github.com/Matt9117/Intolerancies/config"
	"github.com/Matt9117/Intolerancies/services"

	"github.com/gin-gonic/gin"
)

// GET /history returns the last scans, most recent first, deduplicated by code.
func GetHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	entries, err := services.NewHistoryService(config.DB).List(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// GET /history/stats returns verdict counts over the stored history.
func GetHistoryStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := services.NewHistoryService(config.DB).Stats(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
