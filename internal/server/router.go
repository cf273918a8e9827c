package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/quizforge-backend/internal/handlers"
	"github.com/yungbote/quizforge-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName        string
	AllowOrigins       []string
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	UserHandler        *handlers.UserHandler
	ProgressHandler    *handlers.ProgressHandler
	QuizHandler        *handlers.QuizHandler
	LeaderboardHandler *handlers.LeaderboardHandler
	ExplainHandler     *handlers.ExplainHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	// Cors
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Anonymous-ok ||
	// ===============
	// Quiz taking works without an account; a valid token attaches ownership.
	sessions := router.Group("/api")
	sessions.Use(cfg.AuthMiddleware.OptionalAuth())
	{
		sessions.POST("/sessions", cfg.QuizHandler.SaveSession)
		sessions.GET("/sessions", cfg.QuizHandler.ListSessions)
		sessions.GET("/sessions/:id", cfg.QuizHandler.LoadSession)
		sessions.PUT("/sessions/:id/progress", cfg.QuizHandler.SaveProgress)
		sessions.POST("/sessions/:id/complete", cfg.QuizHandler.CompleteSession)
		sessions.GET("/questions", cfg.QuizHandler.GetAllQuestions)
		sessions.GET("/questions/count", cfg.QuizHandler.GetQuestionCount)
		sessions.POST("/explain", cfg.ExplainHandler.Explain)
		sessions.GET("/leaderboard", cfg.LeaderboardHandler.GetLeaderboard)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	// Progress
	protected.GET("/progress", cfg.ProgressHandler.GetProgress)
	// Maintenance
	protected.DELETE("/sessions/generated", cfg.QuizHandler.DeleteGeneratedSessions)
	protected.POST("/admin/dedupe", cfg.QuizHandler.RunDedupe)

	return router
}
