// Package auth verifies Firebase bearer tokens and enforces role-based
// access. Tokens carry a "role" custom claim set by the admin console.
package auth

import (
	"context"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// Roles recognized by the API.
const (
	RoleAdmin          = "admin"
	RoleCoach          = "coach"
	RoleAssistantCoach = "assistant_coach"
)

const tokenContextKey = "token"

// Middleware authenticates the request with a Firebase ID token from the
// Authorization header and attaches the decoded token to the context.
func Middleware(firebaseApp *firebase.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		idToken := strings.TrimPrefix(authHeader, "Bearer ")

		ctx := context.Background()
		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to initialize auth"})
			return
		}

		token, err := authClient.VerifyIDToken(ctx, idToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid ID token"})
			return
		}

		c.Set(tokenContextKey, token)
		c.Next()
	}
}

// Role extracts the caller's role claim, empty when absent.
func Role(c *gin.Context) string {
	v, ok := c.Get(tokenContextKey)
	if !ok {
		return ""
	}
	token, ok := v.(*fbauth.Token)
	if !ok {
		return ""
	}
	role, _ := token.Claims["role"].(string)
	return role
}

// RequireRole gates a route group to the given roles. It assumes Middleware
// already ran on the group.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[Role(c)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
