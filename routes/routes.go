package routes

import (
	"net/http"
	"time"

	"hotel-ops-backend/config"
	"hotel-ops-backend/controllers"
	"hotel-ops-backend/middleware"
	"hotel-ops-backend/models"
	"hotel-ops-backend/realtime"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Controllers bundles every handler group the router mounts.
type Controllers struct {
	Auth            *controllers.AuthController
	Guests          *controllers.GuestController
	Rooms           *controllers.RoomController
	Menu            *controllers.MenuController
	Orders          *controllers.OrderController
	Payments        *controllers.PaymentController
	ServiceRequests *controllers.ServiceRequestController
	Feedback        *controllers.FeedbackController
	Staff           *controllers.StaffController
	Notifications   *controllers.NotificationController
}

func corsConfig(cfg config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-hyperpay-signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		// Credentials cannot be combined with a wildcard origin header, so
		// echo whatever origin the browser sent.
		corsCfg.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	return corsCfg
}

// Setup builds the gin engine with middleware, system endpoints and the full
// API surface. Authorization policy lives here, in the route table, not inside
// handlers.
func Setup(cfg config.Config, db *gorm.DB, hub *realtime.Hub, ctrl Controllers, log zerolog.Logger) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": hub.ClientCount()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	protect := middleware.Protect(db, cfg.JWTSecret)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/logout", protect, ctrl.Auth.Logout)
	}

	guests := api.Group("/guests")
	{
		guests.POST("/register", ctrl.Guests.Register)
		guests.POST("/login", ctrl.Guests.Login)

		frontDesk := guests.Group("", protect, middleware.RequireRoles(models.RoleAdmin, models.RoleReceptionist, models.RoleManager))
		frontDesk.POST("", ctrl.Guests.CheckIn)
		frontDesk.GET("", ctrl.Guests.List)
		frontDesk.POST("/check-out/:id", ctrl.Guests.CheckOut)
	}

	rooms := api.Group("/rooms", protect)
	{
		rooms.GET("", middleware.RequireStaff(), ctrl.Rooms.List)
		rooms.GET("/:id", middleware.RequireStaff(), ctrl.Rooms.Get)
		rooms.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), ctrl.Rooms.Create)
		rooms.PUT("/:id/status", middleware.RequireRoles(models.RoleAdmin, models.RoleReceptionist, models.RoleHousekeeping, models.RoleManager), ctrl.Rooms.UpdateStatus)
		rooms.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), ctrl.Rooms.Delete)
	}

	menu := api.Group("/menu")
	{
		menu.GET("", protect, ctrl.Menu.List)

		kitchen := menu.Group("", protect, middleware.RequireRoles(models.RoleAdmin, models.RoleChef, models.RoleManager))
		kitchen.POST("", ctrl.Menu.Create)
		kitchen.PUT("/:id", ctrl.Menu.Update)
		kitchen.DELETE("/:id", ctrl.Menu.Delete)
	}

	orders := api.Group("/orders", protect)
	{
		orders.POST("", ctrl.Orders.Place)
		orders.GET("/my-orders", ctrl.Orders.ListMine)
		orders.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleChef, models.RoleReceptionist, models.RoleManager), ctrl.Orders.List)
		orders.GET("/:id", ctrl.Orders.Get)
		orders.PUT("/:id/status", middleware.RequireRoles(models.RoleAdmin, models.RoleChef, models.RoleManager), ctrl.Orders.UpdateStatus)
		orders.POST("/cleanup-pending", middleware.RequireRoles(models.RoleAdmin), ctrl.Orders.CleanupPending)
	}

	payments := api.Group("/payments")
	{
		// Webhook pushes authenticate with an HMAC signature, not a session.
		payments.POST("/callback/:orderId", ctrl.Payments.Callback)

		payments.POST("/checkout", protect, ctrl.Payments.CreateCheckout)
		payments.GET("/status/:checkoutId", protect, ctrl.Payments.PollStatus)
		payments.POST("/registration", protect, ctrl.Payments.CreateRegistration)
		payments.GET("/registration/:checkoutId", protect, ctrl.Payments.RegistrationStatus)
		payments.POST("/token-payment", protect, ctrl.Payments.PayWithToken)
	}

	servicesGroup := api.Group("/services", protect)
	{
		servicesGroup.POST("", ctrl.ServiceRequests.Create)
		servicesGroup.GET("", middleware.RequireStaff(), ctrl.ServiceRequests.List)
		servicesGroup.PUT("/:id/status", middleware.RequireStaff(), ctrl.ServiceRequests.UpdateStatus)
	}

	feedback := api.Group("/feedback", protect)
	{
		feedback.POST("", ctrl.Feedback.Create)
		feedback.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), ctrl.Feedback.List)
	}

	staff := api.Group("/staff", protect)
	{
		staff.POST("", middleware.RequireRoles(models.RoleAdmin), ctrl.Staff.Create)
		staff.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), ctrl.Staff.List)
	}

	notifications := api.Group("/notifications", protect)
	{
		notifications.GET("", ctrl.Notifications.List)
		notifications.PUT("/:id/read", ctrl.Notifications.MarkRead)
	}

	return r
}
