package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/quizforge-backend/internal/db"
	"github.com/yungbote/quizforge-backend/internal/gamification"
	"github.com/yungbote/quizforge-backend/internal/handlers"
	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/middleware"
	"github.com/yungbote/quizforge-backend/internal/observability"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/server"
	"github.com/yungbote/quizforge-backend/internal/services"
	"github.com/yungbote/quizforge-backend/internal/types"
	"github.com/yungbote/quizforge-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "quizforge-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	catalogPath := utils.GetEnv("ACHIEVEMENT_CATALOG", "configs/achievements.yaml", log)
	dedupeInterval := utils.GetEnvAsInt("DEDUPE_INTERVAL_MINUTES", 0, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	userProgressRepo := repos.NewUserProgressRepo(thePG, log)
	achievementRepo := repos.NewAchievementRepo(thePG, log)
	userAchievementRepo := repos.NewUserAchievementRepo(thePG, log)
	quizSessionRepo := repos.NewQuizSessionRepo(thePG, log)
	quizQuestionRepo := repos.NewQuizQuestionRepo(thePG, log)
	quizAnswerRepo := repos.NewQuizAnswerRepo(thePG, log)

	// Achievement catalog
	log.Info("Seeding achievement catalog...", "path", catalogPath)
	if err := seedAchievements(ctx, achievementRepo, catalogPath); err != nil {
		log.Warn("Achievement catalog seeding failed", "error", err)
	}

	// Services
	log.Info("Setting up Services from main...")
	leaderboardService, err := services.NewLeaderboardService(ctx, log)
	if err != nil {
		log.Warn("Could not init LeaderboardService", "error", err)
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo)
	progressService := services.NewProgressService(thePG, log, userProgressRepo, achievementRepo, userAchievementRepo, quizSessionRepo, leaderboardService)
	quizService := services.NewQuizService(thePG, log, quizSessionRepo, quizQuestionRepo, quizAnswerRepo, progressService)
	dedupeService := services.NewDedupeService(thePG, log, quizQuestionRepo)
	explainService := services.NewExplainService(log)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	progressHandler := handlers.NewProgressHandler(log, progressService)
	quizHandler := handlers.NewQuizHandler(quizService, dedupeService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	explainHandler := handlers.NewExplainHandler(explainService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:        "quizforge-backend",
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		UserHandler:        userHandler,
		ProgressHandler:    progressHandler,
		QuizHandler:        quizHandler,
		LeaderboardHandler: leaderboardHandler,
		ExplainHandler:     explainHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if dedupeInterval > 0 {
		g.Go(func() error {
			runDedupeWorker(gctx, log, dedupeService, time.Duration(dedupeInterval)*time.Minute)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("Server failed", "error", err)
	}
	if shutdownOTel != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shutdownCtx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}
}

func seedAchievements(ctx context.Context, achievementRepo repos.AchievementRepo, path string) error {
	entries, err := gamification.LoadCatalog(path)
	if err != nil {
		return err
	}
	rows := make([]*types.Achievement, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, &types.Achievement{
			ID:          uuid.New(),
			Key:         entry.Key,
			Name:        entry.Name,
			Description: entry.Description,
			Icon:        entry.Icon,
			XPReward:    entry.XPReward,
			Condition:   string(entry.Condition),
			Threshold:   entry.Threshold,
		})
	}
	return achievementRepo.UpsertByKey(ctx, nil, rows)
}

func runDedupeWorker(ctx context.Context, log *logger.Logger, dedupeService services.DedupeService, interval time.Duration) {
	workerLog := log.With("worker", "dedupe")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := dedupeService.Run(ctx)
			if err != nil {
				workerLog.Warn("dedupe run failed", "error", err)
				continue
			}
			if removed > 0 {
				workerLog.Info("dedupe run removed duplicates", "removed", removed)
			}
		}
	}
}
