// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jupani/storefront/internal/config"
	"github.com/jupani/storefront/internal/domain/checkout"
	"github.com/jupani/storefront/internal/domain/order"
	"github.com/jupani/storefront/internal/domain/product"
	"github.com/jupani/storefront/internal/interfaces/http/handlers"
	"github.com/jupani/storefront/internal/interfaces/http/middleware"
	"github.com/jupani/storefront/internal/pkg/auth"
	"github.com/jupani/storefront/internal/pkg/pdf"
	"github.com/sirupsen/logrus"
)

// Dependencies carries the services the HTTP layer is built from
type Dependencies struct {
	Config          *config.Config
	Logger          *logrus.Logger
	Products        *product.Service
	Categories      *product.CategoryService
	Orders          *order.Service
	Checkout        *checkout.Service
	Receipts        *pdf.Service
	Passwords       *auth.PasswordManager
	Sessions        *auth.SessionManager
	StatusPublisher handlers.StatusPublisher
}

// SetupRoutes registers every API route on the given group
func SetupRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	SetupCatalogRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupCheckoutRoutes(rg, deps)
	SetupAdminRoutes(rg, deps)
}

// SetupCatalogRoutes sets up product and category routes
func SetupCatalogRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	productHandler := handlers.NewProductHandler(deps.Products, deps.Categories, deps.Logger)
	adminOnly := middleware.AdminMiddleware(deps.Config, deps.Sessions)

	products := rg.Group("/products")
	products.Use(middleware.OptionalAdminMiddleware(deps.Config, deps.Sessions))
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/featured", productHandler.GetFeaturedProducts)
		products.GET("/favorites", productHandler.GetFavoriteProducts)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
		products.GET("/:id", productHandler.GetProduct)

		products.POST("", adminOnly, productHandler.CreateProduct)
		products.PATCH("/:id", adminOnly, productHandler.UpdateProduct)
	}

	rg.GET("/categories", productHandler.GetCategories)
}

// SetupCartRoutes sets up the cookie cart routes
func SetupCartRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Config)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("", cartHandler.AddItem)
		cart.PATCH("", cartHandler.UpdateCart)
		cart.DELETE("", cartHandler.DeleteFromCart)
	}
}

// SetupCheckoutRoutes sets up shipping quote and order placement routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout, deps.Config, deps.Logger)

	shipping := rg.Group("/shipping")
	{
		shipping.GET("/methods", checkoutHandler.GetShippingMethods)
		shipping.GET("/quote", checkoutHandler.GetQuote)
	}

	rg.GET("/checkout/options", checkoutHandler.GetCheckoutOptions)
	rg.POST("/orders", checkoutHandler.PlaceOrder)
}

// SetupAdminRoutes sets up admin login and order management routes
func SetupAdminRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Passwords, deps.Sessions, deps.Config, deps.Logger)
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.Receipts, deps.StatusPublisher, deps.Logger)

	admin := rg.Group("/admin")
	{
		admin.POST("/login", authHandler.Login)
		admin.POST("/logout", authHandler.Logout)
		admin.GET("/session", middleware.OptionalAdminMiddleware(deps.Config, deps.Sessions), authHandler.Session)

		protected := admin.Group("")
		protected.Use(middleware.AdminMiddleware(deps.Config, deps.Sessions))
		{
			protected.GET("/orders", orderHandler.GetDashboard)
			protected.GET("/orders/:id", orderHandler.GetOrder)
			protected.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)
			protected.GET("/orders/:id/receipt", orderHandler.GetReceipt)
		}
	}
}
