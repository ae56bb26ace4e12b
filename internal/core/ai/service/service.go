package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-ai-service/internal/core/ai/cache"
	"recipe-ai-service/internal/core/ai/provider"
	"recipe-ai-service/internal/infrastructure/config"
	"recipe-ai-service/internal/pkg/common"
)

// Response AI 回應結構
type Response struct {
	Content string
}

// Options 單次請求的取樣參數
type Options struct {
	Temperature float64
	MaxTokens   int
	// SkipCache 跳過快取。生成類請求（高溫度）每次都該重新取樣。
	SkipCache bool
}

// Service AI 服務，統一封裝提供者與快取
type Service struct {
	config       *config.Config
	provider     provider.Provider
	cacheManager *cache.CacheManager
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, p provider.Provider, cacheManager *cache.CacheManager) (*Service, error) {
	if p == nil {
		return nil, fmt.Errorf("provider is required")
	}

	return &Service{
		config:       cfg,
		provider:     p,
		cacheManager: cacheManager,
	}, nil
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string, opts Options) (*Response, error) {
	// 統一 prompt 格式，去除多餘空白，確保快取 key 一致
	prompt = strings.TrimSpace(prompt)
	cacheKey := strings.Join(strings.Fields(prompt), " ")

	useCache := s.config.Cache.Enabled && s.config.AI.EnableCache && s.cacheManager != nil && !opts.SkipCache

	// 檢查緩存
	if useCache {
		if val, err := s.cacheManager.Get(ctx, cacheKey); err == nil && val != "" {
			return &Response{Content: val}, nil
		}
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, &provider.Request{
		Prompt:      prompt,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	common.LogAICall(time.Since(start), err, "")
	if err != nil {
		return nil, err
	}

	if resp == nil || resp.Content == "" {
		return nil, fmt.Errorf("empty AI response")
	}

	if useCache {
		_ = s.cacheManager.Set(ctx, cacheKey, resp.Content)
	}

	return &Response{Content: resp.Content}, nil
}

// Close 關閉服務
func (s *Service) Close() error {
	return s.provider.Close()
}
