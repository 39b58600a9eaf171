package middleware

import (
	"net/http"

	"parkwise/models"
	"parkwise/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole admits callers whose role is one of roles. It must run after
// JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(utils.ContextRole)
		role, _ := v.(models.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
	}
}
