package middleware

import (
	"context"
	"net/http"
	"strings"

	"parkwise/models"
	"parkwise/utils"

	"github.com/gin-gonic/gin"
)

// TokenVerifier resolves a bearer token to the account it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// JWTAuthMiddleware requires a valid bearer token for a live, unblocked account and
// stores the caller's id, email and role in the gin context.
func JWTAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		account, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		c.Set(utils.ContextUserID, account.ID)
		c.Set(utils.ContextEmail, account.Email)
		c.Set(utils.ContextRole, account.Role)
		c.Set(utils.ContextUser, account)
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller's id.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(utils.ContextUserID)
}

// CurrentUser returns the authenticated caller's account, or nil outside auth routes.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(utils.ContextUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}
