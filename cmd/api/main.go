package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-ai-service/internal/api"
	"recipe-ai-service/internal/core/ai/cache"
	"recipe-ai-service/internal/core/ingredient"
	"recipe-ai-service/internal/infrastructure/config"
	"recipe-ai-service/internal/infrastructure/preference"
	"recipe-ai-service/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 加載 .env 文件
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日誌
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("啟動應用",
		zap.String("environment", cfg.App.Env),
		zap.String("version", cfg.App.Version),
		zap.Int("port", cfg.Server.Port),
	)

	// 初始化快取管理器
	cacheManager := cache.NewManager(cfg)
	defer cacheManager.Close()

	// 初始化偏好儲存
	prefStore, err := preference.NewStore(&cfg.Redis)
	if err != nil {
		common.LogError("Failed to connect preference store", zap.Error(err))
		os.Exit(1)
	}
	defer prefStore.Close()

	// 載入食材分類資料集
	dataset, err := ingredient.LoadDataset(cfg.Dataset.Path)
	if err != nil {
		common.LogError("Failed to load ingredient dataset",
			zap.String("path", cfg.Dataset.Path),
			zap.Error(err),
		)
		os.Exit(1)
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, cacheManager, dataset, prefStore)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 創建 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 優雅關閉，最多等待 5 秒
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
