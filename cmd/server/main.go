package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fittrack/internal/api"
	"fittrack/internal/config"
	"fittrack/internal/repository/postgres"
	"fittrack/internal/service"
	"fittrack/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.Info("starting fittrack server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.WithError(err).Fatal("could not load config")
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	pool, err := postgres.Connect(ctx, cfg.Database.URI)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("could not connect to postgres")
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- Schema Migration ---
	ctx, cancel = context.WithTimeout(context.Background(), time.Minute)
	err = postgres.Migrate(ctx, pool)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("schema migration failed")
	}

	// --- File Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize S3 storage")
	}

	// --- Repositories ---
	userRepo := postgres.NewUserRepo(pool)
	weightRepo := postgres.NewWeightRepo(pool)
	exerciseRepo := postgres.NewExerciseRepo(pool)
	presetRepo := postgres.NewWorkoutPresetRepo(pool)
	planRepo := postgres.NewWorkoutPlanRepo(pool)
	entryRepo := postgres.NewExerciseEntryRepo(pool)
	txManager := postgres.NewTxManager(pool)

	// --- Services ---
	estimator := service.NewCalorieEstimator(weightRepo, log)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseRepo)
	presetService := service.NewPresetService(presetRepo, exerciseRepo)
	planService := service.NewPlanService(planRepo, txManager, estimator, log)
	entryService := service.NewEntryService(entryRepo, exerciseRepo, estimator)
	weightService := service.NewWeightService(weightRepo)

	// --- HTTP ---
	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret,
		authService, exerciseService, presetService, planService,
		entryService, weightService, fileStorage)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen and serve failed")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}
