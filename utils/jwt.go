package utils

import (
	"errors"
	"os"
	"sync"
	"time"

	"parkwise/config"
	"parkwise/models"

	"github.com/golang-jwt/jwt"
)

var (
	secretOnce sync.Once
	secretKey  []byte
)

func getSecret() []byte {
	secretOnce.Do(func() {
		secret := config.AppConfig.JWTSecret
		if secret == "" {
			secret = os.Getenv("JWT_SECRET")
		}
		if secret == "" {
			secret = "parkwise-dev-secret-change-in-production"
		}
		secretKey = []byte(secret)
	})
	return secretKey
}

// TokenClaims is the identity carried by a bearer token.
type TokenClaims struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.StandardClaims
}

// GenerateToken creates a signed JWT carrying {id, email, role} that expires after duration.
func GenerateToken(id, email string, role models.Role, duration time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		ID:    id,
		Email: email,
		Role:  role,
		StandardClaims: jwt.StandardClaims{
			Subject:   id,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

// ValidateToken parses a token string, checks its signature and expiry and returns its claims.
func ValidateToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return getSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
