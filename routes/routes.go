package routes

import (
	"net/http"
	"time"

	"easyhora-backend/config"
	"easyhora-backend/controllers"
	"easyhora-backend/logger"
	"easyhora-backend/metrics"
	"easyhora-backend/repository"
	"easyhora-backend/services"
	"easyhora-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router needs to build its controllers.
type Deps struct {
	Config        *config.Config
	Log           *logger.Logger
	Store         *repository.Store
	Tokens        *utils.TokenManager
	HTTPMetrics   *metrics.HTTPMetrics
	Gatherer      prometheus.Gatherer
	Location      *time.Location
	Auth          *services.AuthService
	Appointments  *services.AppointmentService
	Booking       *services.BookingService
	Reminders     *services.ReminderService
	Subscriptions *services.SubscriptionService
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Admin-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(d.Log, d.HTTPMetrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	secure := gin.Mode() == gin.ReleaseMode
	authController := controllers.NewAuthController(d.Auth, d.Tokens, secure)
	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)

		auth.Use(d.Tokens.AuthMiddleware())
		auth.GET("/me", authController.Me)
	}

	publicController := controllers.NewPublicController(d.Booking)
	public := r.Group("/public/salons/:slug")
	{
		public.GET("", publicController.GetSalon)
		public.GET("/dates", publicController.GetDates)
		public.GET("/slots", publicController.GetSlots)
		public.POST("/appointments", publicController.Book)
	}

	reminderController := controllers.NewReminderController(d.Reminders)
	subscriptionController := controllers.NewSubscriptionController(d.Subscriptions)

	api := r.Group("/api")
	api.Use(d.Tokens.AuthMiddleware(), controllers.TenantMiddleware(d.Store))
	{
		clientController := controllers.ClientController{}
		clients := api.Group("/clients")
		{
			clients.POST("", clientController.CreateClient)
			clients.GET("", clientController.GetClients)
			clients.GET("/:id", clientController.GetClient)
			clients.PUT("/:id", clientController.UpdateClient)
			clients.DELETE("/:id", clientController.DeleteClient)
		}

		catalogController := controllers.CatalogController{}
		catalog := api.Group("/services")
		{
			catalog.POST("", catalogController.CreateService)
			catalog.GET("", catalogController.GetServices)
			catalog.GET("/:id", catalogController.GetService)
			catalog.PUT("/:id", catalogController.UpdateService)
			catalog.DELETE("/:id", catalogController.DeleteService)
		}
		professionals := api.Group("/professionals")
		{
			professionals.POST("", catalogController.CreateProfessional)
			professionals.GET("", catalogController.GetProfessionals)
		professionals.GET("/:id", catalogController.GetProfessional)
			professionals.PUT("/:id", catalogController.UpdateProfessional)
			professionals.DELETE("/:id", catalogController.DeleteProfessional)
		}

		appointmentController := controllers.NewAppointmentController(d.Appointments)
		appointments := api.Group("/appointments")
		{
			appointments.GET("", appointmentController.GetAppointments)
			appointments.POST("", appointmentController.CreateAppointment)
			appointments.GET("/slots", appointmentController.GetSlots)
			appointments.GET("/:id", appointmentController.GetAppointment)
			appointments.PATCH("/:id/status", appointmentController.UpdateStatus)
			appointments.DELETE("/:id", appointmentController.DeleteAppointment)
		}
		api.GET("/blocked-dates", appointmentController.GetBlockedDates)
		api.POST("/blocked-dates", appointmentController.BlockDate)

		paymentController := controllers.NewPaymentController(d.Location)
		payments := api.Group("/payments")
		{
			payments.POST("", paymentController.CreatePayment)
			payments.GET("", paymentController.GetPayments)
			payments.GET("/:id", paymentController.GetPayment)
			payments.PUT("/:id", paymentController.UpdatePayment)
			payments.DELETE("/:id", paymentController.DeletePayment)
		}

		reportController := controllers.NewReportController(d.Location)
		api.GET("/reports", reportController.GetReport)

		dashboardController := controllers.NewDashboardController(d.Location)
		api.GET("/dashboard", dashboardController.GetDashboardOverview)

		settingsController := controllers.NewSettingsController(d.Store)
		api.GET("/settings", settingsController.GetSettings)
		api.PUT("/settings", settingsController.UpdateSettings)

		reminders := api.Group("/reminders")
		{
			reminders.GET("/templates", reminderController.GetReminderTemplates)
			reminders.POST("/templates", reminderController.CreateReminderTemplate)
			reminders.PUT("/templates/:id", reminderController.UpdateReminderTemplate)
			reminders.GET("/logs", reminderController.GetReminderLogs)
			reminders.POST("/send", reminderController.SendReminders)
		}

		subscription := api.Group("/subscription")
		{
			subscription.POST("/checkout", subscriptionController.Checkout)
			subscription.GET("/status", subscriptionController.Status)
		}
	}

	admin := r.Group("/admin", utils.AdminMiddleware(d.Config.AdminToken))
	{
		admin.POST("/sync-profiles", subscriptionController.SyncProfiles)
		admin.POST("/run-reminders", reminderController.RunAllReminders)
	}

	return r
}
