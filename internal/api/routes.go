package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cvlens/internal/api/middleware"
	"cvlens/internal/auth"
	"cvlens/internal/config"
	"cvlens/internal/llm"
)

// RegisterRoutes wires the /v1 API surface.
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient documentStore,
	llmClient llm.Client,
	analyzer resumeAnalyzer,
) {
	resumeHandler := NewResumeHandler(db, storageClient, analyzer, logger,
		cfg.Clamd.Addr, cfg.Analysis.MaxUploadBytes, cfg.Analysis.DefaultTargetRole)
	authHandler := NewAuthHandler(db, authService, redisClient, logger,
		cfg.Auth.LoginRateLimitPerHour, cfg.Auth.LoginLockThreshold, cfg.Auth.LoginLockTTL, cfg.Auth.CookieDomain)
	suggestionHandler := NewSuggestionHandler(llmClient, logger)
	wsHandler := NewWsHandler(redisClient, authService, logger, nil)
	authMiddleware := middleware.AuthMiddleware(authService)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
		}

		resumeGroup := v1.Group("/resume")
		resumeGroup.Use(authMiddleware)
		{
			resumeGroup.POST("/analyse", resumeHandler.Analyze)
			resumeGroup.GET("", resumeHandler.ListResumes)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.DELETE("/:id", resumeHandler.DeleteResume)
			resumeGroup.PATCH("/:id/primary", resumeHandler.MarkPrimary)
			resumeGroup.GET("/:id/document", resumeHandler.GetDocumentLink)
		}

		suggestionGroup := v1.Group("/suggestions")
		suggestionGroup.Use(authMiddleware)
		{
			suggestionGroup.POST("/project", suggestionHandler.SuggestProject)
			suggestionGroup.POST("/experience", suggestionHandler.SuggestExperience)
			suggestionGroup.POST("/extracurricular", suggestionHandler.SuggestExtracurricular)
		}
	}
}
