package api

import (
	"net/http"

	"fittrack/internal/service"
	"fittrack/internal/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	presetService service.PresetService,
	planService service.PlanService,
	entryService service.EntryService,
	weightService service.WeightService,
	fileStorage storage.FileStorage,
) {
	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	presetHandler := NewPresetHandler(presetService)
	planHandler := NewPlanHandler(planService)
	entryHandler := NewEntryHandler(entryService)
	weightHandler := NewWeightHandler(weightService)
	uploadHandler := NewUploadHandler(fileStorage)

	authMiddleware := AuthMiddleware(jwtSecret)

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
	protected.Use(authMiddleware)
	{
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
		}

		presetGroup := protected.Group("/presets")
		{
			presetGroup.POST("", presetHandler.CreatePreset)
			presetGroup.GET("", presetHandler.ListPresets)
			presetGroup.GET("/:id", presetHandler.GetPreset)
			presetGroup.PUT("/:id", presetHandler.UpdatePreset)
			presetGroup.DELETE("/:id", presetHandler.DeletePreset)
		}

		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/:id", planHandler.GetPlan)
			planGroup.PUT("/:id", planHandler.UpdatePlan)
			planGroup.DELETE("/:id", planHandler.DeletePlan)
		}

		entryGroup := protected.Group("/entries")
		{
			entryGroup.POST("", entryHandler.LogEntry)
			entryGroup.GET("", entryHandler.ListEntries)
			entryGroup.GET("/:id", entryHandler.GetEntry)
			entryGroup.PUT("/:id", entryHandler.UpdateEntry)
			entryGroup.DELETE("/:id", entryHandler.DeleteEntry)

			entryGroup.POST("/:id/sets", entryHandler.AddSet)
			entryGroup.POST("/:id/sets/reorder", entryHandler.ReorderSets)
			entryGroup.PUT("/:id/sets/:setNumber", entryHandler.UpdateSet)
			entryGroup.DELETE("/:id/sets/:setNumber", entryHandler.RemoveSet)
		}

		weightGroup := protected.Group("/weight")
		{
			weightGroup.POST("", weightHandler.LogWeight)
			weightGroup.GET("", weightHandler.ListWeights)
		}

		uploadGroup := protected.Group("/uploads")
		{
			uploadGroup.POST("/presign", uploadHandler.PresignUpload)
			uploadGroup.GET("/url", uploadHandler.DownloadURL)
		}

		protected.GET("/reports/summary", entryHandler.Summary)
	}
}
