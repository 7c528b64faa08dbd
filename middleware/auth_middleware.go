package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princinho/urbanthreads/models"
)

const (
	AccessTokenCookie = "accessToken"

	userKey  = "user"
	tokenKey = "token"
)

// UserResolver turns an access token into the signed-in user.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// Authenticate attaches the current user when the request carries a valid
// token. Anonymous requests pass through; use RequireUser to reject them.
func Authenticate(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			if user, err := users.CurrentUser(c.Request.Context(), token); err == nil {
				c.Set(userKey, user)
				c.Set(tokenKey, token)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// Token returns the access token that authenticated the request.
func Token(c *gin.Context) string {
	return c.GetString(tokenKey)
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token", "redirect": "/login"})
			return
		}
		c.Next()
	}
}

// AdminGate lets through only the configured administrator. It is a UI gate,
// not an authorisation model.
func AdminGate(adminEmail string) gin.HandlerFunc {
	adminEmail = strings.ToLower(strings.TrimSpace(adminEmail))
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || strings.ToLower(user.Email) != adminEmail {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied. Admin privileges required.", "redirect": "/"})
			return
		}
		c.Next()
	}
}
