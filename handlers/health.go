package handlers

import (
	"net/http"

	"parkwise/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles GET /api/health with the latest dependency snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": "Server is running",
		"health":  utils.GetHealthStatus(),
	})
}
