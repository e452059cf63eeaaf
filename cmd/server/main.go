package main

import (
	"coachdesk/internal/api"
	"coachdesk/internal/cache"
	"coachdesk/internal/config"
	"coachdesk/internal/repository/mongo"
	"coachdesk/internal/schedule"
	"coachdesk/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// --- Logging ---
	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting coachdesk server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	defaultZone, err := time.LoadLocation(cfg.Scheduling.DefaultTimezone)
	if err != nil {
		logger.Fatal("invalid default timezone",
			zap.String("timezone", cfg.Scheduling.DefaultTimezone), zap.Error(err))
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		logger.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	// The unique (coachId, date) lesson index is what makes booking races
	// safe, so index creation starts immediately, in the background.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureLessonIndexes(ctx, appDB.Collection("lessons"))
		mongo.EnsureBlockedTimeIndexes(ctx, appDB.Collection("blocked_times"))
		mongo.EnsureProgramIndexes(ctx, appDB.Collection("programs"))
		mongo.EnsureRoutineIndexes(ctx, appDB.Collection("routines"))
		logger.Info("index creation process completed")
	}()

	// --- Profile Cache ---
	// The cache is optional: if Redis is unreachable the server still runs,
	// reading every profile from Mongo.
	var profiles *cache.ProfileCache
	if profiles, err = cache.NewProfileCache(cfg.Redis); err != nil {
		logger.Warn("profile cache unavailable, continuing without it", zap.Error(err))
		profiles = nil
	} else {
		defer profiles.Close()
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	lessonRepo := mongo.NewMongoLessonRepository(appDB)
	blockedTimeRepo := mongo.NewMongoBlockedTimeRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	routineRepo := mongo.NewMongoRoutineRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	coachService := service.NewCoachService(userRepo, profiles, logger)
	schedulingService := service.NewSchedulingService(coachService, lessonRepo, blockedTimeRepo,
		schedulingDefaults(cfg.Scheduling, logger), logger)
	blockedTimeService := service.NewBlockedTimeService(blockedTimeRepo, logger)
	programService := service.NewProgramService(programRepo, routineRepo, userRepo)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, defaultZone,
		authService, coachService, schedulingService, blockedTimeService, programService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("server starting", zap.String("address", cfg.Server.Address))

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen and serve error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// In-flight requests get 5 seconds to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

// newLogger builds a production zap logger, switching to the human-readable
// development config when APP_ENV=development.
func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// schedulingDefaults turns the configured fallback window into engine
// defaults. A malformed configured value falls back to the engine's
// canonical window rather than failing startup.
func schedulingDefaults(cfg config.SchedulingConfig, logger *zap.Logger) *schedule.DayHours {
	start, err := schedule.ParseClock(cfg.DefaultStart)
	if err != nil {
		logger.Warn("invalid scheduling.default_start, using canonical default",
			zap.String("value", cfg.DefaultStart))
		return nil
	}
	end, err := schedule.ParseClock(cfg.DefaultEnd)
	if err != nil || end <= start {
		logger.Warn("invalid scheduling.default_end, using canonical default",
			zap.String("value", cfg.DefaultEnd))
		return nil
	}
	interval := cfg.DefaultInterval
	if interval <= 0 {
		interval = schedule.DefaultIntervalMinutes
	}
	return &schedule.DayHours{StartMinute: start, EndMinute: end, IntervalMinutes: interval}
}
