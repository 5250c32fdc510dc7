package api

import (
	"bookstore/internal/middleware" // Session and admin gates
	"bookstore/internal/search"     // Full-text index
	"bookstore/internal/store"      // Repositories

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// NewRouter builds the full HTTP surface: public catalog pages, auth
// flows, the buyer's order pages and the admin console.
func NewRouter(db *gorm.DB, rdb *redis.Client, index *search.Index, jwtSecret, templateDir string) *gin.Engine {
	users := store.NewUsers(db)
	catalog := store.NewCatalog(db, index)
	orders := store.NewOrders(db)

	r := gin.Default() // Gin router instance
	r.LoadHTMLGlob(templateDir + "/*.html")

	// Public pages
	r.GET("/", IndexHandler())
	r.GET("/books", BooksHandler(catalog, rdb))
	r.GET("/authors", AuthorsHandler(catalog, rdb))
	r.GET("/books/:id", BookDetailHandler(catalog))
	r.GET("/authors/:id", AuthorDetailHandler(catalog))
	r.GET("/store/:id/image", BookImageHandler(catalog))
	r.GET("/search", SearchHandler(catalog))

	// Auth flows
	r.GET("/login", LoginPageHandler())
	r.POST("/login", LoginHandler(users, jwtSecret))
	r.GET("/register", RegisterPageHandler())
	r.POST("/register", RegisterHandler(users))

	// Buyer pages (protected by the session cookie)
	authed := r.Group("", middleware.SessionAuthMiddleware(jwtSecret))
	authed.GET("/logout", LogoutHandler())
	authed.GET("/cart", CartHandler(users, orders))
	authed.GET("/cart/in_work", OrdersInWorkHandler(users, orders))
	authed.GET("/books/buy/:id", BuyHandler(users, catalog, orders))
	authed.POST("/books/buy/:id", BuyHandler(users, catalog, orders))
	authed.GET("/delete/:id", DeleteOrderHandler(users, orders))
	authed.POST("/delete/:id", DeleteOrderHandler(users, orders))
	authed.GET("/work", WorkHandler(users, orders))
	authed.POST("/work", WorkHandler(users, orders))

	// Admin console (session + admin role)
	admin := r.Group("/lk", middleware.SessionAuthMiddleware(jwtSecret), middleware.AdminOnlyMiddleware(db))
	admin.GET("", AdminHomeHandler())
	admin.GET("/create", AdminCreatePageHandler(catalog))
	admin.POST("/create", AdminCreateHandler(catalog, rdb))
	admin.GET("/update", AdminUpdatePageHandler(catalog))
	admin.POST("/update", AdminUpdateHandler(catalog, rdb))
	admin.GET("/delete", AdminDeletePageHandler(catalog))
	admin.POST("/delete", AdminDeleteHandler(catalog, rdb))
	admin.GET("/orders", AdminOrdersHandler(orders))
	admin.GET("/work/:id", AdminWorkHandler(orders))
	admin.POST("/work/:id", AdminWorkHandler(orders))

	return r
}
