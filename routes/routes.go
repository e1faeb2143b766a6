package routes

import (
	"github.com/gin-gonic/gin"

	"plinio/handlers"
	"plinio/middleware"
)

// HandlerBundle groups the handlers the router needs.
type HandlerBundle struct {
	Booking  *handlers.BookingHandler
	Payments *handlers.PaymentsHandler
	Download *handlers.DownloadHandler
	Payhip   *handlers.PayhipHandler
	Site     *handlers.SiteHandler
	Products *handlers.ProductsHandler
	Admin    *handlers.AdminHandler
}

// RegisterRoutes wires every endpoint of the site backend.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api")

	booking := api.Group("/booking")
	{
		booking.GET("/availability", hb.Booking.GetAvailability)
		booking.GET("/health", hb.Booking.Health)
		booking.POST("", middleware.RateLimitMiddleware(), hb.Booking.CreateBooking)
	}

	payments := api.Group("/payments")
	{
		payments.POST("/webhook", hb.Payments.Webhook)
	}

	digital := api.Group("/digital")
	{
		digital.GET("/download/:token", middleware.RateLimitMiddleware(), hb.Download.Download)
	}

	api.POST("/payhip/webhook", hb.Payhip.Webhook)

	api.POST("/contatti", middleware.RateLimitMiddleware(), hb.Site.Contact)
	api.POST("/consent", hb.Site.Consent)
	api.GET("/store/products", hb.Products.List)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	{
		admin.GET("/orders", hb.Admin.ListOrders)
		admin.POST("/tokens/:id/revoke", hb.Admin.RevokeToken)
	}
}
