package api

import (
	"errors"   // For errors.Is on store sentinels
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"bookstore/internal/middleware" // Session cookie name
	"bookstore/internal/store"      // Repositories
	"bookstore/internal/utils"      // Session token helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

// isValidEmail is a cheap shape check; real validation is the unique
// constraint plus the mail the shop eventually sends
func isValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".")
}

// isValidPassword checks if the password length is between 8 and 64 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 64
}

// RegisterPageHandler renders the registration form
func RegisterPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "register.html", gin.H{"Flash": takeFlash(c)})
	}
}

// RegisterHandler creates a user account from the registration form.
// Validation failures re-render the form with a message.
func RegisterHandler(users *store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.PostForm("username"))
		email := strings.TrimSpace(c.PostForm("email"))
		password := c.PostForm("password")
		number := strings.TrimSpace(c.PostForm("number"))
		// Validate the form fields before touching the store
		if username == "" || number == "" {
			c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": "All fields are required"})
			return
		}
		if !isValidEmail(email) {
			c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": "Invalid email address"})
			return
		}
		if !isValidPassword(password) {
			c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": "Password must be 8-64 characters"})
			return
		}
		if _, err := users.Register(username, email, password, number); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				// Uniqueness violation surfaces as a form message
				c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": "Email already registered"})
				return
			}
			if errors.Is(err, store.ErrDuplicateUsername) {
				c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": "Username already taken"})
				return
			}
			serverError(c, err)
			return
		}
		setFlash(c, "You can now log in")
		c.Redirect(http.StatusFound, "/login")
	}
}

// LoginPageHandler renders the login form
func LoginPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Flash": takeFlash(c),
			"Next":  c.Query("next"), // Preserved through the form round-trip
		})
	}
}

// LoginHandler verifies credentials and sets the session cookie
func LoginHandler(users *store.Users, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.PostForm("email"))
		password := c.PostForm("password")
		user, err := users.Authenticate(email, password)
		if err != nil {
			if errors.Is(err, store.ErrInvalidCredentials) {
				c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Invalid email or password"})
				return
			}
			serverError(c, err)
			return
		}
		token, err := utils.GenerateSession(user.ID, jwtSecret) // Mint the session token
		if err != nil {
			serverError(c, err)
			return
		}
		// HTTP-only session cookie; expiry matches the token's
		c.SetCookie(middleware.SessionCookie, token, int(utils.SessionTTL.Seconds()), "/", "", false, true)
		next := c.PostForm("next")
		if next == "" || !strings.HasPrefix(next, "/") {
			next = "/" // Only same-site redirect targets
		}
		c.Redirect(http.StatusFound, next)
	}
}

// LogoutHandler clears the session cookie
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true) // Drop the session
		setFlash(c, "You have been logged out")
		c.Redirect(http.StatusFound, "/")
	}
}
