package routes

import (
	"net/http"

	"wholesale-backend/controllers"
	"wholesale-backend/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers bundles everything the router needs.
type Controllers struct {
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Order    *controllers.OrderController
	Pricing  *controllers.PricingController
	Shipping *controllers.ShippingController
	Settings *controllers.SettingsController
	Product  *controllers.ProductController
}

// SetupRoutes registers all API routes.
func SetupRoutes(router *gin.Engine, ctl Controllers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	{
		// Catalog
		api.GET("/products", ctl.Product.ListProducts)
		api.GET("/products/:productId", ctl.Product.GetProduct)
		api.GET("/categories", ctl.Product.ListCategories)
		api.GET("/pricing/products/:productId", ctl.Pricing.GetProductPrice)

		// Cart
		api.GET("/cart", ctl.Cart.GetCart)
		api.POST("/cart/items", ctl.Cart.AddToCart)
		api.PUT("/cart/items/:productId", ctl.Cart.UpdateQuantity)
		api.DELETE("/cart/items/:productId", ctl.Cart.RemoveFromCart)
		api.DELETE("/cart", ctl.Cart.ClearCart)

		// Shipping quote preview
		api.POST("/shipping/quote", ctl.Shipping.QuoteOptions)

		// Checkout flow
		api.GET("/checkout", ctl.Checkout.GetSession)
		api.POST("/checkout", ctl.Checkout.Begin)
		api.PUT("/checkout/address", ctl.Checkout.SubmitAddress)
		api.POST("/checkout/address/edit", ctl.Checkout.EditAddress)
		api.POST("/checkout/options/refresh", ctl.Checkout.RefreshOptions)
		api.PUT("/checkout/option", ctl.Checkout.SelectOption)
		api.POST("/checkout/complete", ctl.Checkout.Complete)

		// Buyer orders
		api.GET("/orders", ctl.Order.GetMyOrders)
		api.GET("/orders/:orderId", ctl.Order.GetMyOrder)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/orders", ctl.Order.GetAllOrders)
		admin.POST("/orders", ctl.Order.CreateOrder)
		admin.GET("/orders/:orderId", ctl.Order.GetOrder)
		admin.PUT("/orders/:orderId", ctl.Order.UpdateOrder)
		admin.DELETE("/orders/:orderId", ctl.Order.DeleteOrder)
		admin.POST("/orders/:orderId/tracking", ctl.Order.AddTracking)

		admin.GET("/pricing/tiers", ctl.Pricing.ListTiers)
		admin.POST("/pricing/tiers", ctl.Pricing.CreateTier)
		admin.PUT("/pricing/tiers/:tierId", ctl.Pricing.UpdateTier)
		admin.DELETE("/pricing/tiers/:tierId", ctl.Pricing.DeleteTier)
		admin.PUT("/pricing/prices", ctl.Pricing.SetProductPrice)
		admin.DELETE("/pricing/prices/:productId/:tierId", ctl.Pricing.RemoveProductPrice)
		admin.PUT("/pricing/users", ctl.Pricing.AssignUserTier)
		admin.DELETE("/pricing/users/:userId", ctl.Pricing.UnassignUserTier)

		admin.GET("/settings", ctl.Settings.GetSettings)
		admin.PUT("/settings", ctl.Settings.UpdateSettings)

		admin.POST("/products", ctl.Product.CreateProduct)
		admin.PUT("/products/:productId", ctl.Product.UpdateProduct)
		admin.DELETE("/products/:productId", ctl.Product.DeleteProduct)
	}
}
