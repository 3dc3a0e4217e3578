package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
)

const contextUserKey = "user"

// Identify attaches the token's user to the request when the bearer token
// is valid and names an existing user. Anything else leaves the request
// anonymous.
func Identify(tokens *Tokens, users *db.UserRepository) gin.HandlerFunc {
	logger := logging.WithComponent("auth")
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			logger.Debug("Ignoring bearer token", zap.Error(err))
			c.Next()
			return
		}
		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to load token user", zap.Int64("user_id", claims.UserID), zap.Error(err))
			c.Next()
			return
		}
		if user != nil {
			c.Set(contextUserKey, user)
		}
		c.Next()
	}
}

// RequireUser redirects anonymous callers to loginURL with the current
// path as the next parameter.
func RequireUser(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginRedirect(loginURL, c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRedirect builds the login URL that returns to next afterwards
func LoginRedirect(loginURL, next string) string {
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + url.QueryEscape(next)
}

// CurrentUser returns the signed-in user or nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// UserID returns the signed-in user's id or zero
func UserID(c *gin.Context) int64 {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}
