// File: utils/constants.go
package utils

// QRCachePrefix is the prefix used for Redis keys holding rendered QR images.
const QRCachePrefix = "qr:"

// Gin context keys set by the auth middleware.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
	ContextUser   = "user"
)
