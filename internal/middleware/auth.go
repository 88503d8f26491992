package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	apierrors "github.com/volunteerhub/volunteer-hub-api/internal/errors"
)

// RequireAuth checks if the user is authenticated via session. The session
// principal carries only the email and display name.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		email := session.Get(constants.SessionKeyEmail)
		name := session.Get(constants.SessionKeyName)

		if email == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyEmail, email)
		if name != nil {
			c.Set(constants.ContextKeyUserName, name)
		}
		c.Next()
	}
}

// GetUserEmail retrieves the current principal's email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(constants.ContextKeyEmail)
	if !exists {
		return "", false
	}

	if v, ok := email.(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// GetUserName retrieves the current principal's display name from context
func GetUserName(c *gin.Context) (string, bool) {
	name, exists := c.Get(constants.ContextKeyUserName)
	if !exists {
		return "", false
	}

	if v, ok := name.(string); ok && v != "" {
		return v, true
	}
	return "", false
}
