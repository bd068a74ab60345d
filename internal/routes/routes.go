package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartclinic-server/internal/handlers"
	"smartclinic-server/internal/middleware"
	"smartclinic-server/internal/models"
	"smartclinic-server/internal/services"
	"smartclinic-server/internal/utils"
)

// Services are the collaborators the routes dispatch to.
type Services struct {
	Auth         *services.AuthService
	Patients     *services.PatientService
	Appointments *services.AppointmentService
	Chat         *services.ChatService
}

// CORS builds the cross-origin policy. A single "*" allows every origin
// without credentials; explicit origins are allowed with credentials.
func CORS(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour
	return cors.New(corsConfig)
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, svc Services, logger *zap.Logger) {
	utils.InstallBindingValidator()
	router.Use(middleware.ErrorHandler(logger))

	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.Auth)
	patientHandler := handlers.NewPatientHandler(svc.Patients)
	appointmentHandler := handlers.NewAppointmentHandler(svc.Appointments)
	chatHandler := handlers.NewChatHandler(svc.Chat)

	api := router.Group("/api")
	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "SmartClinic AI API"})
	})

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	private := api.Group("")
	private.Use(middleware.AuthMiddleware(svc.Auth))
	{
		private.GET("/auth/me", authHandler.Me)
		private.POST("/auth/logout", authHandler.Logout)

		patientRoutes := private.Group("/patients")
		{
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatient)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)
			patientRoutes.DELETE("/:id", patientHandler.DeletePatient)
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
		}

		chatRoutes := private.Group("/chat")
		{
			chatRoutes.POST("/message", chatHandler.SendMessage)
			chatRoutes.GET("/history/:session_id", chatHandler.GetHistory)
		}

		// Admin-only routes
		adminRoutes := private.Group("/users")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("", userHandler.GetUsers)
			adminRoutes.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}
