package routes

import (
	"food-marketplace-api/handlers"
	"food-marketplace-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		public.GET("/vendors", handlers.ListVendors)
		public.GET("/menu-items/:vendorId", handlers.ListMenuItems)

		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/auth/user", handlers.GetCurrentUser)

		// Vendor profile + menu
		auth.POST("/vendors", handlers.CreateVendor)
		auth.GET("/vendors/my", handlers.GetMyVendor)
		auth.PUT("/vendors/my", handlers.UpdateMyVendor)
		auth.POST("/menu-items", handlers.CreateMenuItem)
		auth.PUT("/menu-items/:id", handlers.UpdateMenuItem)
		auth.DELETE("/menu-items/:id", handlers.DeleteMenuItem)

		// Orders
		auth.POST("/orders", handlers.CreateOrder)
		auth.GET("/orders/customer", handlers.CustomerOrders)
		auth.GET("/orders/vendor/:vendorId", handlers.VendorOrders)
		auth.GET("/orders/driver", handlers.DriverOrders)
		auth.GET("/orders/unassigned", handlers.UnassignedOrders)
		auth.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
		auth.GET("/orders/:id/history", handlers.OrderHistory)

		// Driver profile
		auth.POST("/drivers", handlers.CreateDriver)
		auth.GET("/drivers/my", handlers.GetMyDriver)
		auth.GET("/drivers/available", handlers.AvailableDrivers)
		auth.PUT("/drivers/status", handlers.UpdateDriverStatus)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/analytics/stats", handlers.SystemStats)
	}
}
