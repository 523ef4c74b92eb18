package router

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/handler"
	"mateswap/internal/adapter/api/middleware"
)

func SetupProductRouter(v1 *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	productHandler := handler.GetProductHandler()
	contactHandler := handler.GetContactHandler()

	// Public listing routes
	products := v1.Group("/products")
	products.GET("", productHandler.ListProducts, authMiddleware.OptionalAuth)
	products.GET("/:id", productHandler.GetProduct, authMiddleware.OptionalAuth)
	products.POST("/:id/contact", contactHandler.ContactSeller, authMiddleware.Authenticate)

	myProducts := v1.Group("/my-products")
	myProducts.Use(authMiddleware.Authenticate)
	myProducts.POST("", productHandler.CreateProduct)
	myProducts.POST("/images", productHandler.UploadImage)
	myProducts.DELETE("/:id", productHandler.DeleteProduct)
}
