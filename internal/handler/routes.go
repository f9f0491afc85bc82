package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/middleware"
)

// Handlers bundles every endpoint group for route registration
type Handlers struct {
	Profile   *ProfileHandler
	Tracker   *TrackerHandler
	Library   *LibraryHandler
	Nutrition *NutritionHandler
	Coach     *CoachHandler
	Dictation *DictationHandler
	Report    *ReportHandler
}

// SetupRouter builds the gin engine with the full middleware chain and all
// routes registered. The AI-backed endpoints share one rate limiter so a
// burst of analysis requests cannot exhaust the model quota.
func SetupRouter(h Handlers, db *sql.DB, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RecoveryMiddleware(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(logger))

	r.GET("/health", healthCheck(db, logger))

	v1 := r.Group("/api/v1")

	profile := v1.Group("/profile")
	{
		profile.GET("", h.Profile.GetProfile)
		profile.PUT("", h.Profile.UpdateProfile)
		profile.POST("/metrics", h.Profile.UpdateMetrics)
		profile.POST("/reset", h.Profile.ResetProfile)
	}

	log := v1.Group("/log")
	{
		log.POST("/meals", h.Tracker.LogMeal)
		log.POST("/workouts", h.Tracker.LogWorkout)
		log.GET("/days/:date", h.Tracker.GetDay)
		log.GET("/days/:date/balance", h.Tracker.GetBalance)
	}

	library := v1.Group("/library")
	{
		library.GET("/products", h.Library.ListProducts)
		library.POST("/products", h.Library.AddProduct)
		library.DELETE("/products/:id", h.Library.RemoveProduct)
		library.GET("/photos/:name", h.Library.GetProductPhoto)
		library.GET("/stock", h.Library.ListStock)
		library.POST("/stock", h.Library.AddStockItem)
		library.POST("/stock/remove", h.Library.RemoveStockItem)
	}

	nutrition := v1.Group("/nutrition")
	{
		// Pure recomputation, no model involved
		nutrition.POST("/analysis/remove-item", h.Nutrition.RemoveAnalysisItem)
		nutrition.POST("/menu/recompute", h.Nutrition.RecomputeMenu)

		ai := nutrition.Group("")
		ai.Use(middleware.AIRateLimitMiddleware(1, 3, logger))
		{
			ai.POST("/analyze/photo", h.Nutrition.AnalyzePhoto)
			ai.POST("/analyze/description", h.Nutrition.AnalyzeDescription)
			ai.GET("/suggestions/:mealType", h.Nutrition.SuggestMeal)
			ai.POST("/recipes/search", h.Nutrition.FindRecipes)
			ai.POST("/menu/generate", h.Nutrition.GenerateMenu)
		}
	}

	coach := v1.Group("/coach")
	coach.Use(middleware.AIRateLimitMiddleware(1, 3, logger))
	{
		coach.GET("/motivation", h.Coach.GetMotivation)
		coach.GET("/advice", h.Coach.GetAdvice)
		coach.POST("/chat", h.Coach.Chat)
	}

	dictation := v1.Group("/dictation")
	{
		dictation.POST("/sessions", h.Dictation.StartSession)
		dictation.POST("/sessions/:id/audio", h.Dictation.StreamAudio)
		dictation.POST("/sessions/:id/stop", h.Dictation.StopSession)
	}

	v1.GET("/reports/progress", h.Report.GetProgressReport)

	return r
}

// healthCheck reports liveness and document store connectivity
func healthCheck(db *sql.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			logger.Error("health check failed: database unreachable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "connected",
			"service":  "fittrack-backend",
			"version":  "1.0.0",
		})
	}
}
