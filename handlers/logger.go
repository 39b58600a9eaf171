package handlers

import (
	"parkwise/middleware"
	"parkwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the global logger annotated with the request route and caller.
func getLogger(c *gin.Context) *zap.Logger {
	fields := []zap.Field{zap.String("route", c.FullPath())}
	if id := middleware.CurrentUserID(c); id != "" {
		fields = append(fields, zap.String("userId", id))
	}
	return utils.GetLogger().With(fields...)
}
