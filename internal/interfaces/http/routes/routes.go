// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/shopease-cart/internal/interfaces/http/handlers"
	"github.com/your-org/shopease-cart/internal/interfaces/http/middleware"
	"github.com/your-org/shopease-cart/internal/pkg/auth"
)

// SetupRoutes wires all API routes to their handlers
func SetupRoutes(rg *gin.RouterGroup, cartHandler *handlers.CartHandler, catalogHandler *handlers.CatalogHandler, sessions *auth.SessionManager) {
	// Product browsing (no session required)
	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	// Cart routes; every request resolves a cart session first
	cartRoutes := rg.Group("/cart")
	cartRoutes.Use(middleware.CartSession(sessions))
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.DELETE("", cartHandler.ClearCart)
		cartRoutes.GET("/count", cartHandler.GetCartCount)
		cartRoutes.POST("/items", cartHandler.AddToCart)
		cartRoutes.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartRoutes.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}
}
