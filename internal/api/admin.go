package api

import (
	"context"  // Context for Redis operations
	"errors"   // For errors.Is on store sentinels
	"io"       // For reading uploaded files
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"bookstore/internal/store" // Repositories
	"bookstore/internal/utils" // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// maxPrice bounds the price field; prices are whole non-negative units
const maxPrice = 1_000_000

// isValidPrice checks the price form field before it lands in the store
func isValidPrice(s string) bool {
	v, err := strconv.Atoi(s)
	return err == nil && v >= 0 && v <= maxPrice
}

// formID parses a numeric id out of a form value
func formID(c *gin.Context, field string) (uint, bool) {
	id, err := strconv.ParseUint(c.PostForm(field), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// readUpload reads an uploaded file's bytes; a missing file is not an
// error, it simply yields nil
func readUpload(c *gin.Context, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil // No file attached
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// dropListings invalidates the cached catalog listings after a mutation
func dropListings(rdb *redis.Client) {
	_ = utils.DropCache(context.Background(), rdb, utils.BooksCacheKey, utils.AuthorsCacheKey)
}

// AdminHomeHandler renders the admin console landing page
func AdminHomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "lk.html", gin.H{"Flash": takeFlash(c)})
	}
}

// adminFormData loads the select-box contents shared by the admin forms
func adminFormData(c *gin.Context, catalog *store.Catalog) (gin.H, bool) {
	books, err := catalog.Books()
	if err != nil {
		serverError(c, err)
		return nil, false
	}
	authors, err := catalog.Authors()
	if err != nil {
		serverError(c, err)
		return nil, false
	}
	return gin.H{"Books": books, "Authors": authors, "Flash": takeFlash(c)}, true
}

// AdminCreatePageHandler renders the author and book creation forms
func AdminCreatePageHandler(catalog *store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := adminFormData(c, catalog)
		if !ok {
			return
		}
		c.HTML(http.StatusOK, "lk_create.html", data)
	}
}

// AdminCreateHandler handles both creation forms, dispatched on the
// hidden "form" field
func AdminCreateHandler(catalog *store.Catalog, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.PostForm("form") {
		case "author":
			name := c.PostForm("author")
			if name == "" {
				c.HTML(http.StatusBadRequest, "lk_create.html", gin.H{"Error": "Author name is required"})
				return
			}
			if _, err := catalog.CreateAuthor(name); err != nil {
				if errors.Is(err, store.ErrDuplicateAuthor) {
					c.HTML(http.StatusBadRequest, "lk_create.html", gin.H{"Error": "Author already exists"})
					return
				}
				serverError(c, err)
				return
			}
			dropListings(rdb)
			setFlash(c, "Author created")
			c.Redirect(http.StatusFound, "/lk")
		case "book":
			title := c.PostForm("name")
			price := c.PostForm("price")
			if title == "" {
				c.HTML(http.StatusBadRequest, "lk_create.html", gin.H{"Error": "Book title is required"})
				return
			}
			if !isValidPrice(price) {
				c.HTML(http.StatusBadRequest, "lk_create.html", gin.H{"Error": "Price must be between 0 and 1000000"})
				return
			}
			authorID, ok := formID(c, "authors")
			if !ok {
				c.HTML(http.StatusBadRequest, "lk_create.html", gin.H{"Error": "Choose an author"})
				return
			}
			image, err := readUpload(c, "image")
			if err != nil {
				serverError(c, err)
				return
			}
			_, err = catalog.CreateBook(title, c.PostForm("type"), c.PostForm("description"), price, []uint{authorID}, image)
			if err != nil {
				serverError(c, err)
				return
			}
			dropListings(rdb)
			setFlash(c, "Book created")
			c.Redirect(http.StatusFound, "/lk")
		default:
			c.HTML(http.StatusBadRequest, "lk_create.html", gin.H{"Error": "Unknown form"})
		}
	}
}

// AdminUpdatePageHandler renders the update forms
func AdminUpdatePageHandler(catalog *store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := adminFormData(c, catalog)
		if !ok {
			return
		}
		c.HTML(http.StatusOK, "lk_update.html", data)
	}
}

// AdminUpdateHandler handles author rename, partial book update,
// book/author association and cover replacement
func AdminUpdateHandler(catalog *store.Catalog, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.PostForm("form") {
		case "author":
			id, ok := formID(c, "name")
			if !ok {
				notFound(c)
				return
			}
			newName := c.PostForm("author")
			if newName == "" {
				c.HTML(http.StatusBadRequest, "lk_update.html", gin.H{"Error": "Author name is required"})
				return
			}
			if _, err := catalog.UpdateAuthor(id, newName); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					notFound(c)
					return
				}
				serverError(c, err)
				return
			}
			dropListings(rdb)
			setFlash(c, "Author updated")
			c.Redirect(http.StatusFound, "/lk")
		case "book":
			id, ok := formID(c, "choose_book")
			if !ok {
				notFound(c)
				return
			}
			// Empty fields are left untouched: a typed partial update
			var upd store.BookUpdate
			if v := c.PostForm("name"); v != "" {
				upd.Title = &v
			}
			if v := c.PostForm("type"); v != "" {
				upd.Type = &v
			}
			if v := c.PostForm("description"); v != "" {
				upd.Description = &v
			}
			if v := c.PostForm("price"); v != "" {
				if !isValidPrice(v) {
					c.HTML(http.StatusBadRequest, "lk_update.html", gin.H{"Error": "Price must be between 0 and 1000000"})
					return
				}
				upd.Price = &v
			}
			if _, err := catalog.UpdateBook(id, upd); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					notFound(c)
					return
				}
				serverError(c, err)
				return
			}
			dropListings(rdb)
			setFlash(c, "Book updated")
			c.Redirect(http.StatusFound, "/lk")
		case "association":
			bookID, ok := formID(c, "book")
			if !ok {
				notFound(c)
				return
			}
			authorID, ok := formID(c, "author")
			if !ok {
				notFound(c)
				return
			}
			if err := catalog.AddAssociation(bookID, authorID); err != nil {
				if errors.Is(err, store.ErrDuplicateAssociation) {
					c.HTML(http.StatusBadRequest, "lk_update.html", gin.H{"Error": "Book is already linked to this author"})
					return
				}
				if errors.Is(err, store.ErrNotFound) {
					notFound(c)
					return
				}
				serverError(c, err)
				return
			}
			dropListings(rdb)
			setFlash(c, "Author linked to book")
			c.Redirect(http.StatusFound, "/lk")
		case "image":
			id, ok := formID(c, "book_name")
			if !ok {
				notFound(c)
				return
			}
			image, err := readUpload(c, "new_image")
			if err != nil {
				serverError(c, err)
				return
			}
			if image == nil {
				c.HTML(http.StatusBadRequest, "lk_update.html", gin.H{"Error": "Attach a cover image"})
				return
			}
			if _, err := catalog.UpdateBook(id, store.BookUpdate{Image: image}); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					notFound(c)
					return
				}
				serverError(c, err)
				return
			}
			setFlash(c, "Cover updated")
			c.Redirect(http.StatusFound, "/lk")
		default:
			c.HTML(http.StatusBadRequest, "lk_update.html", gin.H{"Error": "Unknown form"})
		}
	}
}

// AdminDeletePageHandler renders the delete forms
func AdminDeletePageHandler(catalog *store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := adminFormData(c, catalog)
		if !ok {
			return
		}
		c.HTML(http.StatusOK, "lk_delete.html", data)
	}
}

// AdminDeleteHandler deletes a book or an author; association rows
// referencing the deleted entity go with it
func AdminDeleteHandler(catalog *store.Catalog, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := formID(c, "name")
		if !ok {
			notFound(c)
			return
		}
		var err error
		switch c.PostForm("form") {
		case "author":
			err = catalog.DeleteAuthor(id)
		case "book":
			err = catalog.DeleteBook(id)
		default:
			c.HTML(http.StatusBadRequest, "lk_delete.html", gin.H{"Error": "Unknown form"})
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			notFound(c)
			return
		}
		if err != nil {
			serverError(c, err)
			return
		}
		dropListings(rdb)
		setFlash(c, "Deleted")
		c.Redirect(http.StatusFound, "/lk")
	}
}

// AdminOrdersHandler lists every order past the initial status
func AdminOrdersHandler(orders *store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := orders.AllInProgress()
		if err != nil {
			serverError(c, err)
			return
		}
		c.HTML(http.StatusOK, "lk_orders.html", gin.H{"Orders": items, "Flash": takeFlash(c)})
	}
}

// AdminWorkHandler advances a single order to in_work regardless of owner
func AdminWorkHandler(orders *store.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			notFound(c)
			return
		}
		if err := orders.AdvanceOne(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFound(c)
				return
			}
			serverError(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/lk/orders")
	}
}
