package app

import (
	"github.com/gin-gonic/gin"
	"github.com/vitalmart/storefront/internal/middleware"
	"github.com/vitalmart/storefront/internal/modules/blog"
	"github.com/vitalmart/storefront/internal/modules/cart"
	"github.com/vitalmart/storefront/internal/modules/catalog"
	"github.com/vitalmart/storefront/internal/modules/order"
	"github.com/vitalmart/storefront/internal/modules/session"
	"github.com/vitalmart/storefront/internal/pkg/response"
)

func (a *App) registerRoutes(
	sessionSvc *session.Service,
	cartSvc *cart.Service,
	catalogSvc *catalog.Service,
	orderSvc *order.Service,
	blogSvc *blog.Service,
) {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.RateLimit())
	session.NewHandler(sessionSvc).RegisterRoutes(api)
	cart.NewHandler(cartSvc).RegisterRoutes(api)
	order.NewHandler(orderSvc, sessionSvc, cartSvc).RegisterRoutes(api)

	// Catalog and blog content is read-only and safe to serve from a short
	// in-process cache.
	cached := api.Group("", middleware.HTTPCache(middleware.HTTPCacheOptions{}))
	catalog.NewHandler(catalogSvc).RegisterRoutes(cached)
	blog.NewHandler(blogSvc).RegisterRoutes(cached)
}
