package middleware

import (
	"net/http" // HTTP status codes

	"bookstore/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// AdminOnlyMiddleware checks the user's role from the database on each
// request and renders the 403 page for everyone else
func AdminOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c) // Get userID from context
		if !ok {
			// Session middleware did not run; treat as no session
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			c.HTML(http.StatusForbidden, "403.html", nil) // Unknown user: forbidden
			c.Abort()
			return
		}
		if !user.IsAdministrator() {
			c.HTML(http.StatusForbidden, "403.html", nil) // Role insufficient
			c.Abort()
			return
		}
		c.Next() // Admin confirmed, proceed
	}
}
