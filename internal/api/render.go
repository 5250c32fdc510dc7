package api

import (
	"net/http" // HTTP status codes

	"bookstore/internal/domain"     // Importing domain models
	"bookstore/internal/middleware" // Session context helpers
	"bookstore/internal/store"      // Repositories

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// flashCookie carries a one-shot message across a redirect, the way the
// original storefront flashed form feedback
const flashCookie = "flash"

// setFlash stores a message to show on the next rendered page
func setFlash(c *gin.Context, msg string) {
	c.SetCookie(flashCookie, msg, 60, "/", "", false, true)
}

// takeFlash reads and clears the pending flash message
func takeFlash(c *gin.Context) string {
	msg, err := c.Cookie(flashCookie)
	if err != nil || msg == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true) // One-shot: clear after reading
	return msg
}

// notFound renders the static 404 page
func notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", nil)
	c.Abort()
}

// serverError logs the fault and renders the static 500 page
func serverError(c *gin.Context, err error) {
	logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled fault")
	c.HTML(http.StatusInternalServerError, "500.html", nil)
	c.Abort()
}

// currentUser resolves the session's user row. Only meaningful behind
// the session middleware.
func currentUser(c *gin.Context, users *store.Users) (*domain.User, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		return nil, false
	}
	user, err := users.ByID(id)
	if err != nil {
		return nil, false
	}
	return user, true
}
