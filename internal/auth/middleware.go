package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

var errNoHeader = errors.New("Authorization header required")

func bearerClaims(c *gin.Context, secret string) (*JWTClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errNoHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
		return nil, errors.New("Invalid authorization header format")
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, errors.New("Token is empty")
	}

	claims, err := ValidateToken(tokenString, secret)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, errors.New("Token expired")
		}
		return nil, errors.New("Invalid or malformed token")
	}

	if claims.TokenType != tokenTypeAccess {
		return nil, errors.New("Access token required")
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims *JWTClaims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUserEmail, claims.Email)
	c.Set(ctxUserRole, claims.Role)
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := bearerClaims(c, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a token is present and
// lets anonymous requests through. A bad token is still rejected.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := bearerClaims(c, secret)
		switch {
		case errors.Is(err, errNoHeader):
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		default:
			setClaims(c, claims)
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(int)
	return id, ok
}

func GetEmail(c *gin.Context) string {
	return c.GetString(ctxUserEmail)
}

// GetRole returns the caller's role claim, "" for anonymous requests.
func GetRole(c *gin.Context) string {
	return c.GetString(ctxUserRole)
}
