// Package routes assembles the gin engine.
package routes

import (
	"net/http"

	"taskclinic/backend/internal/config"
	"taskclinic/backend/internal/handlers"
	"taskclinic/backend/internal/middleware"
	"taskclinic/backend/internal/monitoring"
	"taskclinic/backend/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the router mounts. Limiter may be nil,
// in which case the auth endpoints are not throttled.
type Dependencies struct {
	Tokens       middleware.TokenVerifier
	Auth         handlers.AuthService
	Tasks        handlers.TaskService
	Appointments handlers.AppointmentService
	Doctors      handlers.DoctorService
	Limiter      ratelimit.Limiter
	Metrics      *monitoring.Metrics
	Health       *monitoring.HealthChecker
}

func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	if deps.Metrics == nil {
		deps.Metrics = monitoring.NewMetrics()
	}
	if deps.Health == nil {
		deps.Health = monitoring.NewHealthChecker(0)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Logger(), middleware.RecoveryWithLog(), deps.Metrics.Middleware())
	if len(cfg.CORS.AllowedOrigins) > 0 {
		router.Use(middleware.CORS(cfg.CORS.AllowedOrigins, cfg.CORS.MaxAge))
	}
	router.NoRoute(middleware.NotFound())
	router.NoMethod(middleware.NotFound())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Task Manager and Clinic API"})
	})
	router.GET("/health", monitoring.HealthHandler(deps.Metrics, deps.Health))
	router.GET("/health/ready", monitoring.ReadinessHandler(deps.Health))
	router.GET("/health/live", monitoring.LivenessHandler(deps.Metrics))
	router.GET("/metrics", monitoring.MetricsHandler(deps.Metrics))

	api := router.Group("/api")
	authenticated := middleware.Authenticate(deps.Tokens)

	authHandler := handlers.NewAuthHandler(deps.Auth)
	auth := api.Group("/auth")
	{
		public := auth.Group("")
		if cfg.RateLimit.Enabled && deps.Limiter != nil {
			public.Use(middleware.RateLimit(deps.Limiter, "auth"))
		}
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)

		auth.GET("/me", authenticated, authHandler.Me)
		auth.PUT("/me", authenticated, authHandler.UpdateMe)
	}

	if cfg.TasksEnabled() {
		taskHandler := handlers.NewTaskHandler(deps.Tasks)
		tasks := api.Group("/tasks", authenticated)
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.GetTasks)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	if cfg.ClinicEnabled() {
		appointmentHandler := handlers.NewAppointmentHandler(deps.Appointments)
		appointments := api.Group("/appointments", authenticated)
		{
			appointments.POST("", appointmentHandler.CreateAppointment)
			appointments.GET("", appointmentHandler.GetAppointments)
			appointments.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointments.PUT("/:id", appointmentHandler.UpdateAppointment)
			appointments.DELETE("/:id", appointmentHandler.DeleteAppointment)
		}

		doctorHandler := handlers.NewDoctorHandler(deps.Doctors)
		doctors := api.Group("/doctors", authenticated)
		{
			doctors.GET("", doctorHandler.GetDoctors)
			doctors.POST("/profile", doctorHandler.CreateProfile)
			doctors.GET("/:id", doctorHandler.GetDoctorByID)
			doctors.PUT("/:id", doctorHandler.UpdateProfile)
			doctors.DELETE("/:id", doctorHandler.DeleteProfile)
			doctors.POST("/:id/reviews", doctorHandler.AddReview)
		}
	}

	return router
}
