// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"starmobiles/internal/delivery/api/middleware"
	"starmobiles/internal/delivery/api/router/handler"
	"starmobiles/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler      *handler.AuthHandler
	ProductHandler   *handler.ProductHandler
	CartHandler      *handler.CartHandler
	BookingHandler   *handler.BookingHandler
	OrderHandler     *handler.OrderHandler
	DeviceHandler    *handler.DeviceHandler
	AdminHandler     *handler.AdminHandler
	AuthMiddleware   *middleware.AuthMiddleware
	APIKeyMiddleware *middleware.APIKeyMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{RouterParams: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET("/images/*", r.ProductHandler.ServeImage)

	api := e.Group("/api")
	api.Use(r.APIKeyMiddleware.Check)
	api.GET("/health", handler.HealthCheck)
	api.GET("/services", handler.ServiceCatalog)

	authenticate := r.AuthMiddleware.Authenticate
	adminOnly := r.AuthMiddleware.RequireRole(entity.RoleAdmin)

	// Auth provider routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.AuthHandler.Login)
		authGroup.POST("/signup", r.AuthHandler.Signup)
		authGroup.POST("/token", r.AuthHandler.Token)
		authGroup.POST("/otp", r.AuthHandler.SendOTP)
		authGroup.POST("/verify", r.AuthHandler.VerifyOTP)
		authGroup.POST("/recover", r.AuthHandler.Recover)
		authGroup.POST("/recover/confirm", r.AuthHandler.RecoverConfirm)

		authGroup.POST("/logout", r.AuthHandler.Logout, authenticate)
		authGroup.GET("/user", r.AuthHandler.GetUser, authenticate)
		authGroup.PUT("/user", r.AuthHandler.UpdateUser, authenticate)
		authGroup.GET("/profile", r.AuthHandler.GetProfile, authenticate)
		authGroup.PUT("/profile", r.AuthHandler.UpdateProfile, authenticate)
	}

	// Catalog is public; mutations are admin-only.
	productsGroup := api.Group("/products")
	{
		productsGroup.GET("", r.ProductHandler.ListProducts)
		productsGroup.GET("/:id", r.ProductHandler.GetProduct)
		productsGroup.POST("", r.ProductHandler.CreateProduct, authenticate, adminOnly)
		productsGroup.PUT("/:id", r.ProductHandler.UpdateProduct, authenticate, adminOnly)
		productsGroup.DELETE("/:id", r.ProductHandler.DeleteProduct, authenticate, adminOnly)
	}
	api.POST("/upload/image", r.ProductHandler.UploadImage, authenticate, adminOnly)

	cartGroup := api.Group("/cart", authenticate)
	{
		cartGroup.GET("", r.CartHandler.ListCart)
		cartGroup.POST("", r.CartHandler.AddToCart)
		cartGroup.PUT("/:id", r.CartHandler.UpdateQuantity)
		cartGroup.DELETE("/:id", r.CartHandler.RemoveItem)
		cartGroup.DELETE("", r.CartHandler.ClearCart)
	}

	bookingsGroup := api.Group("/bookings", authenticate)
	{
		bookingsGroup.GET("", r.BookingHandler.ListBookings)
		bookingsGroup.POST("", r.BookingHandler.CreateBooking)
		bookingsGroup.PUT("/:id", r.BookingHandler.UpdateBooking, adminOnly)
		bookingsGroup.DELETE("/:id", r.BookingHandler.DeleteBooking)
	}

	// Ownership rules for orders are enforced by the usecase.
	ordersGroup := api.Group("/orders", authenticate)
	{
		ordersGroup.GET("", r.OrderHandler.ListOrders)
		ordersGroup.POST("", r.OrderHandler.CreateOrder)
		ordersGroup.PUT("/:id", r.OrderHandler.UpdateOrder)
		ordersGroup.DELETE("/:id", r.OrderHandler.CancelOrder)
		ordersGroup.GET("/:id/payment-qr", r.OrderHandler.PaymentQR)
	}

	devicesGroup := api.Group("/devices", authenticate)
	{
		devicesGroup.POST("", r.DeviceHandler.RegisterDevice)
		devicesGroup.GET("", r.DeviceHandler.GetUserDevices)
		devicesGroup.DELETE("/:id", r.DeviceHandler.DeactivateDevice)
	}

	adminGroup := api.Group("/admin", authenticate, adminOnly)
	{
		adminGroup.GET("/stats", r.AdminHandler.GetStats)
	}
}
