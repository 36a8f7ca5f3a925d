package routes

import (
	"github.com/Matt9117/Intolerancies/controllers"
	"github.com/Matt9117/Intolerancies/middlewares"
	"github.com/Matt9117/Intolerancies/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter(rt *services.RealtimeHub, push *services.PushService) *gin.Engine {
	r := gin.Default()

	scanCtl := controllers.NewScanController(services.NewScanSessionManager())
	rtCtl := controllers.NewRealtimeController(rt)
	devCtl := controllers.NewDeviceController(push)
	devTools := controllers.NewDevController(push)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-mfa", controllers.VerifyMFA)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Public advisory surface: the browser app calls this cross-origin, so
	// the handler owns its own CORS/method handling.
	r.Any("/api/eval", controllers.EvalAdvisory)

	// Public category enumeration for the intolerance toggles
	r.GET("/categories", controllers.ListCategories)

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
		user.PUT("/intolerances", controllers.UpdateIntolerances)
		user.POST("/onboarding", controllers.CompleteOnboarding)
		user.DELETE("", controllers.DeleteAccount)
		user.POST("/notifications/toggle", controllers.ToggleNotifications)
	}

	// Scan pipeline
	scan := r.Group("/scan")
	scan.Use(middlewares.AuthMiddleware())
	{
		scan.GET("/ws", scanCtl.ScanWS)
		scan.POST("/label", scanCtl.ScanLabelPhoto)
		scan.GET("/:code", scanCtl.ScanCode)
	}

	// Scan history
	history := r.Group("/history")
	history.Use(middlewares.AuthMiddleware())
	{
		history.GET("", controllers.GetHistory)
		history.GET("/stats", controllers.GetHistoryStats)
	}

	// Devices + realtime alerts
	protected := r.Group("")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.POST("/devices", devCtl.Register)
		protected.GET("/ws/alerts", rtCtl.AlertsWS)
		protected.POST("/dev/push-test", devTools.PushTest)
	}

	return r
}
