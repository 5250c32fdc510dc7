package api

import (
	"context"  // Context for Redis operations
	"errors"   // For errors.Is on store sentinels
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"bookstore/internal/domain" // Importing domain models
	"bookstore/internal/store"  // Repositories
	"bookstore/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// paramID parses the numeric id path parameter
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// IndexHandler renders the landing page
func IndexHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{"Flash": takeFlash(c)})
	}
}

// BooksHandler lists the catalog, serving from the Redis cache when the
// listing has not changed recently
func BooksHandler(catalog *store.Catalog, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		var books []domain.Book
		found, err := utils.GetCache(ctx, rdb, utils.BooksCacheKey, &books)
		if err != nil || !found {
			// Cache miss (or Redis down): read the store
			books, err = catalog.Books()
			if err != nil {
				serverError(c, err)
				return
			}
			// Best effort; a failed cache write only costs the next read
			_ = utils.SetCache(ctx, rdb, utils.BooksCacheKey, books, utils.CatalogCacheTTL)
		}
		c.HTML(http.StatusOK, "books.html", gin.H{"Items": books})
	}
}

// AuthorsHandler lists every author, cached like the book listing
func AuthorsHandler(catalog *store.Catalog, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		var authors []domain.Author
		found, err := utils.GetCache(ctx, rdb, utils.AuthorsCacheKey, &authors)
		if err != nil || !found {
			authors, err = catalog.Authors()
			if err != nil {
				serverError(c, err)
				return
			}
			_ = utils.SetCache(ctx, rdb, utils.AuthorsCacheKey, authors, utils.CatalogCacheTTL)
		}
		c.HTML(http.StatusOK, "authors.html", gin.H{"Items": authors})
	}
}

// BookDetailHandler renders a single book with its authors
func BookDetailHandler(catalog *store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
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
		c.HTML(http.StatusOK, "detail_book.html", gin.H{"Item": book})
	}
}

// AuthorDetailHandler renders a single author with their books
func AuthorDetailHandler(catalog *store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			notFound(c)
			return
		}
		author, err := catalog.Author(id)
		if errors.Is(err, store.ErrNotFound) {
			notFound(c)
			return
		}
		if err != nil {
			serverError(c, err)
			return
		}
		c.HTML(http.StatusOK, "detail_author.html", gin.H{"Item": author})
	}
}

// BookImageHandler serves the raw cover bytes
func BookImageHandler(catalog *store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
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
		c.Data(http.StatusOK, "application/octet-stream", book.Image) // Blob served as-is
	}
}

// SearchHandler runs the full-text query over titles and author names
func SearchHandler(catalog *store.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		authors, books, err := catalog.Search(query)
		if err != nil {
			serverError(c, err)
			return
		}
		c.HTML(http.StatusOK, "search.html", gin.H{
			"Authors": authors, // Relevance-ordered author hits
			"Books":   books,   // Relevance-ordered book hits
			"Query":   query,   // Echoed into the search box
		})
	}
}
