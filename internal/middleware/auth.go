package middleware

import (
	"net/http" // HTTP status codes
	"net/url"  // For encoding the next-page parameter

	"bookstore/internal/utils" // Session token helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

// SessionCookie is the cookie carrying the signed session token
const SessionCookie = "session"

// UserIDKey is the gin context key the session middleware fills in
const UserIDKey = "userID"

// SessionAuthMiddleware resolves the session cookie into a user id.
// Requests without a valid session are redirected to the login page
// with the original path preserved, matching the browser flow.
func SessionAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie) // Read the session cookie
		if err != nil || tokenStr == "" {
			// No session: send the browser to the login form
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		claims, err := utils.ParseSession(tokenStr, secret) // Validate the token
		if err != nil {
			// Expired or tampered cookie is treated the same as none
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true) // Clear the stale cookie
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Set(UserIDKey, claims.UserID) // Store userID in context
		c.Next()                        // Proceed to the next handler
	}
}

// UserID pulls the authenticated user id out of the gin context
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
