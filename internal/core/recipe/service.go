package recipe

import (
	"context"
	"fmt"
	"net/http"

	"recipe-ai-service/internal/core/ingredient"
	"recipe-ai-service/internal/pkg/common"

	"go.uber.org/zap"
)

// PreferenceStore 偏好儲存介面，管線只需要寫入能力
type PreferenceStore interface {
	Save(ctx context.Context, userID string, liked, excluded []string) error
}

// Request 食譜生成請求。喜好與排除清單在此之前
// 已通過傳輸層的子集驗證。
type Request struct {
	UserID               string
	AvailableIngredients []string
	LikedIngredients     []string
	ExcludedIngredients  []string
}

// Service 食譜生成管線：
// 儲存偏好 → 正規化 → 衝突閘門 → 解析食材 → 數量/覆蓋閘門 → 生成。
// 所有中間狀態都只存活於單次請求內。
type Service struct {
	resolver    *ingredient.Resolver
	generator   *Generator
	preferences PreferenceStore
}

// NewService 創建食譜生成管線
func NewService(resolver *ingredient.Resolver, generator *Generator, preferences PreferenceStore) *Service {
	return &Service{
		resolver:    resolver,
		generator:   generator,
		preferences: preferences,
	}
}

// GenerateRecipes 執行完整管線並返回含除錯資訊的食譜批次
func (s *Service) GenerateRecipes(ctx context.Context, req *Request) ([]RecipeWithDebug, error) {
	// 無論生成是否成功，先保存呼叫端聲明的偏好（原樣保存）。
	// 儲存故障是內部錯誤，帶狀態碼讓傳輸層與 AI 失敗區分
	if err := s.preferences.Save(ctx, req.UserID, req.LikedIngredients, req.ExcludedIngredients); err != nil {
		return nil, common.NewError(common.ErrCodeInternalError, "Failed to save preferences",
			http.StatusInternalServerError, fmt.Errorf("failed to save preferences: %w", err))
	}
	common.LogInfo("偏好已保存", zap.String("user_id", req.UserID))

	// 正規化所有清單
	available := ingredient.NormalizeAll(req.AvailableIngredients)
	liked := ingredient.NormalizeAll(req.LikedIngredients)
	excluded := ingredient.NormalizeAll(req.ExcludedIngredients)

	common.LogInfo("食材清單",
		zap.Strings("available", available),
		zap.Strings("liked", liked),
		zap.Strings("excluded", excluded),
	)

	// 衝突閘門在任何解析工作之前執行
	if err := CheckConflicts(liked, excluded); err != nil {
		common.LogError("偏好衝突", zap.Error(err))
		return nil, err
	}

	// 逐一解析食材；未解析的項目是預期雜訊，靜默排除
	resolutions := s.resolver.ResolveAll(ctx, available)

	var resolved []*ingredient.Resolution
	var validIngredients, matchedDB, matchedLLM []string
	for i, res := range resolutions {
		if res == nil {
			common.LogWarn("食材未被認定為有效，已排除",
				zap.String("ingredient", available[i]),
			)
			continue
		}
		resolved = append(resolved, res)
		validIngredients = append(validIngredients, res.Ingredient)
		switch res.Source {
		case ingredient.SourceDataset:
			matchedDB = append(matchedDB, res.Ingredient)
		case ingredient.SourceAI:
			matchedLLM = append(matchedLLM, res.Ingredient)
		}
	}

	common.LogInfo("食材解析完成",
		zap.Strings("valid", validIngredients),
		zap.Strings("matched_with_database", matchedDB),
		zap.Strings("matched_via_llm", matchedLLM),
	)

	// 數量與覆蓋閘門
	if err := CheckResolved(resolved); err != nil {
		common.LogError("約束檢查未通過",
			zap.Error(err),
			zap.Strings("valid", validIngredients),
		)
		return nil, err
	}

	// 生成食譜
	recipes, err := s.generator.Generate(ctx, validIngredients, liked, excluded, matchedDB, matchedLLM)
	if err != nil {
		return nil, err
	}

	common.LogInfo("食譜生成成功",
		zap.String("user_id", req.UserID),
		zap.Int("recipes", len(recipes)),
	)

	return recipes, nil
}
