package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"recipe-ai-service/internal/api/handlers/health"
	preferenceHandler "recipe-ai-service/internal/api/handlers/preference"
	recipeHandler "recipe-ai-service/internal/api/handlers/recipe"
	"recipe-ai-service/internal/api/middleware"
	"recipe-ai-service/internal/core/ai/cache"
	"recipe-ai-service/internal/core/ai/service"
	"recipe-ai-service/internal/core/ingredient"
	recipeService "recipe-ai-service/internal/core/recipe"
	openrouter "recipe-ai-service/internal/core/service"
	"recipe-ai-service/internal/infrastructure/config"
	"recipe-ai-service/internal/infrastructure/preference"
	"recipe-ai-service/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB，純文字請求不需要更大)
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager, dataset *ingredient.Dataset, prefStore *preference.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流與去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("resolver_workers", cfg.AI.Workers),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Int("dataset_entries", dataset.Size()),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化 AI 服務
	provider := openrouter.NewOpenRouterService(cfg)
	aiService, err := service.NewService(cfg, provider, cacheManager)
	if err != nil || aiService == nil {
		common.LogError("Failed to initialize AI service", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}

	// 初始化解析鏈：資料集優先，外部分類器墊後
	classifier := ingredient.NewClassifier(aiService)
	resolver := ingredient.NewResolver(dataset, classifier, cfg.AI.Workers)

	// 初始化食譜生成管線
	generator := recipeService.NewGenerator(aiService)
	recipeSvc := recipeService.NewService(resolver, generator, prefStore)

	common.LogInfo("Recipe services initialized successfully",
		zap.Bool("ai_service_initialized", aiService != nil),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.String("environment", cfg.App.Env),
	)

	// 全局中間件：設置請求超時與配置
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set("config", cfg)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck(prefStore))
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipeHandlerInstance := recipeHandler.NewHandler(recipeSvc)
		preferenceHandlerInstance := preferenceHandler.NewHandler(prefStore)

		// 食譜生成
		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("/generate", recipeHandlerInstance.HandleGenerate)
		}

		// 使用者偏好
		preferenceGroup := api.Group("/preference")
		{
			preferenceGroup.GET("/:user_id", preferenceHandlerInstance.HandleGet)
			preferenceGroup.DELETE("/:user_id", preferenceHandlerInstance.HandleDelete)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
