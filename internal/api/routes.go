package api

import (
	"net/http"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Auth         service.AuthService
	Survey       service.SurveyService
	Plan         service.PlanService
	Session      service.SessionService
	Progress     service.ProgressService
	Notification service.NotificationService
	Exercise     service.ExerciseService
}

// SetupRoutes registers every endpoint on router.
func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	// Exercise names are path keys and may contain "/", sent as %2F.
	router.UseRawPath = true

	authHandler := NewAuthHandler(svc.Auth)
	surveyHandler := NewSurveyHandler(svc.Survey)
	planHandler := NewPlanHandler(svc.Plan)
	progressHandler := NewProgressHandler(svc.Session, svc.Progress)
	notificationHandler := NewNotificationHandler(svc.Notification)
	exerciseHandler := NewExerciseHandler(svc.Exercise)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", authHandler.Me)

		protected.PUT("/survey", surveyHandler.SubmitSurvey)
		protected.GET("/survey", surveyHandler.GetSurvey)

		planGroup := protected.Group("/plans/current")
		{
			planGroup.POST("", planHandler.GeneratePlan)
			planGroup.GET("", planHandler.GetCurrentPlan)
			planGroup.GET("/days/:day", planHandler.GetDayWorkout)
		}

		progressGroup := protected.Group("/progress")
		{
			progressGroup.POST("/days/:day", progressHandler.RecordSession)
			progressGroup.GET("/dashboard", progressHandler.Dashboard)
		}

		notificationGroup := protected.Group("/notifications")
		{
			notificationGroup.GET("", notificationHandler.ListNotifications)
			notificationGroup.GET("/unread", notificationHandler.UnreadCount)
			notificationGroup.PATCH("/:id/read", notificationHandler.MarkRead)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:name/tutorial", exerciseHandler.GetTutorial)

			// Catalog administration
			admin := RoleMiddleware(domain.RoleAdmin)
			exerciseGroup.POST("", admin, exerciseHandler.UpsertExercise)
			exerciseGroup.PUT("/:name/tutorial", admin, exerciseHandler.SetTutorial)
			exerciseGroup.POST("/:name/media-upload-url", admin, exerciseHandler.CreateMediaUploadURL)
		}
	}
}
