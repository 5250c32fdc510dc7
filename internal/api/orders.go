package api

import (
	"errors"   // For errors.Is on store sentinels
	"net/http" // HTTP status codes

	"bookstore/internal/store" // Repositories

	"github.com/gin-gonic/gin" // Gin web framework
)

// CartHandler lists the buyer's orders still in the initial status
func CartHandler(users *store.Users, orders *store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, users)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		items, err := orders.Cart(user.Username)
		if err != nil {
			serverError(c, err)
			return
		}
		c.HTML(http.StatusOK, "cart.html", gin.H{"Orders": items, "Flash": takeFlash(c)})
	}
}

// OrdersInWorkHandler lists the buyer's orders past the initial status
func OrdersInWorkHandler(users *store.Users, orders *store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, users)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		items, err := orders.InProgress(user.Username)
		if err != nil {
			serverError(c, err)
			return
		}
		c.HTML(http.StatusOK, "orders_in_work.html", gin.H{"Orders": items})
	}
}

// BuyHandler places an order for the given book, snapshotting the
// buyer's contact data and the book's title and price
func BuyHandler(users *store.Users, catalog *store.Catalog, orders *store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, users)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		id, ok := paramID(c)
		if !ok {
			notFound(c)
			return
		}
		book, err := catalog.Book(id)
		if errors.Is(err, store.ErrNotFound) {
			notFound(c)
			return
		}
		if err != nil {
			serverError(c, err)
			return
		}
		if _, err := orders.Place(user, book); err != nil {
			if errors.Is(err, store.ErrDuplicatePhone) {
				// Legacy constraint: one order per phone number, ever
				setFlash(c, "An order with your phone number already exists")
				c.Redirect(http.StatusFound, "/cart")
				return
			}
			serverError(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/cart")
	}
}

// WorkHandler bulk-advances the caller's cart to processing; orders
// already past the initial status are untouched
func WorkHandler(users *store.Users, orders *store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, users)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		if err := orders.AdvanceAll(user.Username); err != nil {
			serverError(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/cart")
	}
}

// DeleteOrderHandler removes an order. Permitted for the order's owner
// or an admin; the redirect target depends on which one acted.
func DeleteOrderHandler(users *store.Users, orders *store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, users)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		id, ok := paramID(c)
		if !ok {
			notFound(c)
			return
		}
		order, err := orders.ByID(id)
		if errors.Is(err, store.ErrNotFound) {
			notFound(c)
			return
		}
		if err != nil {
			serverError(c, err)
			return
		}
		// Owner-or-admin check; everyone else gets the 403 page
		if order.User != user.Username && !user.IsAdministrator() {
			c.HTML(http.StatusForbidden, "403.html", nil)
			return
		}
		if err := orders.Delete(order.ID); err != nil {
			serverError(c, err)
			return
		}
		if user.IsAdministrator() {
			c.Redirect(http.StatusFound, "/lk/orders") // Admin back to the console
			return
		}
		c.Redirect(http.StatusFound, "/cart") // Buyer back to the cart
	}
}
