package routes

import (
	"log/slog"
	"net/http"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/controllers"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the long-lived services the handlers share.
type Deps struct {
	Logger    *slog.Logger
	Tokens    services.TokenStore
	Accounts  utils.AccountChecker
	Hub       *services.Hub
	Notifier  *services.NotificationService
	Invoices  *services.InvoiceService
	Reminders *services.ReminderService
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(deps.Logger))
	r.Use(config.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authController := controllers.NewAuthController(deps.Tokens)
	orderController := controllers.NewOrderController(deps.Notifier, deps.Invoices)
	doorController := controllers.NewDoorController(deps.Notifier)
	complaintController := controllers.NewComplaintController(deps.Notifier)
	notificationController := controllers.NewNotificationController(deps.Hub)
	reminderController := controllers.NewReminderController(deps.Reminders)
	reportController := controllers.ReportController{}

	adminOnly := utils.RequireRole(models.RoleAdmin)
	authRequired := utils.AuthMiddleware(deps.Tokens, deps.Accounts)

	auth := r.Group("/auth")
	{
		auth.POST("/login", authController.Login)

		auth.Use(authRequired)
		auth.GET("/me", controllers.Me)
		auth.PUT("/profile", controllers.UpdateProfile)
		auth.PUT("/password", controllers.ChangePassword)
		auth.POST("/logout", authController.Logout)
	}

	// Public: opened by scanning an invoice QR code
	r.GET("/api/verify", controllers.VerifyInvoice)

	api := r.Group("/api")
	api.Use(authRequired)
	{
		// User routes
		users := api.Group("/users", adminOnly)
		{
			users.GET("", controllers.GetUsers)
			users.POST("", controllers.CreateUser)
			users.GET("/:id", controllers.GetUser)
			users.PUT("/:id", controllers.UpdateUser)
			users.DELETE("/:id", controllers.DeleteUser)
		}

		// Order routes
		orders := api.Group("/orders")
		{
			orders.GET("", orderController.GetOrders)
			orders.POST("", orderController.CreateOrder)
			orders.GET("/capacity", orderController.GetCapacity)
			orders.GET("/measurement", orderController.GetMeasurementOrders)
			orders.GET("/debt", orderController.GetDebtOrders)
			orders.GET("/:id", orderController.GetOrder)
			orders.PUT("/:id", orderController.UpdateOrder)
			orders.DELETE("/:id", adminOnly, orderController.DeleteOrder)
			orders.PATCH("/:id/status", orderController.UpdateOrderStatus)
			orders.PATCH("/:id/payment-done", orderController.MarkPaymentDone)
			orders.PATCH("/:id/printed", orderController.MarkPrinted)
			orders.PATCH("/:id/measurement", orderController.UpdateMeasurement)
			orders.GET("/:id/supplementary-orders", orderController.GetOrderSupplementaryOrders)
			orders.GET("/:id/invoice", orderController.OrderInvoice(controllers.InvoiceJSON))
			orders.GET("/:id/invoice/qr", orderController.OrderInvoice(controllers.InvoiceQR))
			orders.GET("/:id/invoice/pdf", orderController.OrderInvoice(controllers.InvoicePDF))
			orders.GET("/:id/invoice/print", orderController.OrderInvoice(controllers.InvoicePrint))
		}

		// Supplementary order routes
		supplementary := api.Group("/supplementary-orders")
		{
			supplementary.GET("", orderController.GetSupplementaryOrders)
			supplementary.POST("", orderController.CreateSupplementaryOrder)
			supplementary.GET("/:id", orderController.GetSupplementaryOrder)
			supplementary.PUT("/:id", orderController.UpdateSupplementaryOrder)
			supplementary.DELETE("/:id", adminOnly, orderController.DeleteSupplementaryOrder)
			supplementary.PATCH("/:id/payment-done", orderController.MarkSupplementaryPaymentDone)
			supplementary.PATCH("/:id/printed", orderController.MarkSupplementaryPrinted)
			supplementary.GET("/:id/invoice", orderController.SupplementaryInvoice(controllers.InvoiceJSON))
			supplementary.GET("/:id/invoice/qr", orderController.SupplementaryInvoice(controllers.InvoiceQR))
			supplementary.GET("/:id/invoice/pdf", orderController.SupplementaryInvoice(controllers.InvoicePDF))
			supplementary.GET("/:id/invoice/print", orderController.SupplementaryInvoice(controllers.InvoicePrint))
		}

		// Payment routes
		api.GET("/payments", orderController.GetPayments)
		api.POST("/payments", orderController.CreatePayment)

		// Door routes
		doors := api.Group("/doors")
		{
			doors.GET("", doorController.GetDoors)
			doors.POST("", adminOnly, doorController.CreateDoor)
			doors.GET("/:id", doorController.GetDoor)
			doors.PUT("/:id", adminOnly, doorController.UpdateDoor)
			doors.DELETE("/:id", adminOnly, doorController.DeleteDoor)
			doors.PATCH("/:id/status", doorController.UpdateDoorStatus)
			doors.PUT("/:id/access-users", adminOnly, doorController.SetAccessUsers)
		}

		// Complaint routes
		complaints := api.Group("/complaints")
		{
			complaints.GET("", complaintController.GetComplaints)
			complaints.POST("", complaintController.CreateComplaint)
			complaints.GET("/:id", complaintController.GetComplaint)
			complaints.PUT("/:id", complaintController.UpdateComplaint)
			complaints.DELETE("/:id", adminOnly, complaintController.DeleteComplaint)
			complaints.PATCH("/:id/resolve", complaintController.ResolveComplaint)
		}

		// Notification routes
		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationController.GetNotifications)
			notifications.GET("/ws", notificationController.Stream)
			notifications.PATCH("/read-all", notificationController.MarkAllRead)
			notifications.PATCH("/:id/read", notificationController.MarkRead)
			notifications.DELETE("/:id", notificationController.DeleteNotification)
		}

		// Reminder routes
		reminders := api.Group("/reminders", adminOnly)
		{
			reminders.GET("/templates", reminderController.GetReminderTemplates)
			reminders.POST("/templates", reminderController.CreateReminderTemplate)
			reminders.GET("/templates/:id", reminderController.GetReminderTemplate)
			reminders.PUT("/templates/:id", reminderController.UpdateReminderTemplate)
			reminders.DELETE("/templates/:id", reminderController.DeleteReminderTemplate)
			reminders.POST("/run", reminderController.RunReminders)
			reminders.GET("/logs", reminderController.GetReminderLogs)
		}

		//Reports routes
		api.GET("/reports", adminOnly, reportController.GetReportAnalytics)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
