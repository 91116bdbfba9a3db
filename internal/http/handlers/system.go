package handlers

import (
	"net/http"

	intconfig "fleetops/internal/config"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "fleetops"})
}

// DBCheck reflects connection status for the dashboard's indicator:
// connected when the ping succeeds, disconnected otherwise.
func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "disconnected", "error": "database not connected"})
		return
	}
	if err := intconfig.EnsureDB(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "reconnecting", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "connected"})
}
