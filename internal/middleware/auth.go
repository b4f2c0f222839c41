package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

// Claims carries the owning user id in access tokens.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// OptionalAuth resolves the owner from a bearer token when one is present.
// Anonymous requests pass through untouched; a token that is present but
// invalid is rejected so a caller never silently loses their ownership
// scope.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Bearer token required"})
			return
		}

		token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		if claims, ok := token.Claims.(*Claims); ok && claims.UserID > 0 {
			c.Set(userIDKey, claims.UserID)
		}
		c.Next()
	}
}

// UserID returns the authenticated owner id, or nil for anonymous requests.
func UserID(c *gin.Context) *int64 {
	v, exists := c.Get(userIDKey)
	if !exists {
		return nil
	}
	id, ok := v.(int64)
	if !ok {
		return nil
	}
	return &id
}
