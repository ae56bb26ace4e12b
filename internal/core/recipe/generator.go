package recipe

import (
	"context"
	"fmt"
	"strings"

	"recipe-ai-service/internal/core/ai/service"
	"recipe-ai-service/internal/pkg/common"

	"go.uber.org/zap"
)

// 生成請求的取樣參數：創造型任務用高溫度與較大的輸出上限
const (
	generateTemperature = 1
	generateMaxTokens   = 4096
	maxRecipes          = 5
)

// Generator 食譜生成器：組裝一次性生成指令、呼叫外部服務、
// 解析結構化回覆並為整批食譜附上共用的除錯資訊。
type Generator struct {
	aiService *service.Service
}

// NewGenerator 創建生成器
func NewGenerator(aiService *service.Service) *Generator {
	return &Generator{
		aiService: aiService,
	}
}

// Generate 根據有效食材與偏好生成食譜。
// 單次非串流呼叫；回覆解析失敗或任一食譜缺少必要欄位時整批失敗，
// 不做部分食譜回收。成功時每個食譜都帶有相同的 DebugInfo。
func (g *Generator) Generate(ctx context.Context, valid, liked, excluded, matchedDB, matchedLLM []string) ([]RecipeWithDebug, error) {
	prompt := fmt.Sprintf(
		"Generate up to %d recipes using these ingredients: %s. "+
			"Give preference to: %s. "+
			"Exclude: %s. "+
			"Ensure the recipes make culinary sense. "+
			"Each recipe must be in JSON format with the following keys: "+
			"'title', 'ingredients' (list of objects with 'ingredient' and 'quantity'), "+
			"'instructions' (list), 'estimated_cooking_time', 'difficulty_level'. "+
			"Return only a valid JSON list, no extra text.",
		maxRecipes,
		strings.Join(valid, ", "),
		strings.Join(liked, ", "),
		strings.Join(excluded, ", "))

	resp, err := g.aiService.ProcessRequest(ctx, prompt, service.Options{
		Temperature: generateTemperature,
		MaxTokens:   generateMaxTokens,
		SkipCache:   true, // 高溫度取樣，每次回覆都不同
	})
	if err != nil {
		return nil, fmt.Errorf("AI service error: %w", err)
	}

	rawResponse := strings.TrimSpace(resp.Content)

	common.LogDebug("AI 回應內容 (recipe/generate)",
		zap.Int("ai_response_length", len(rawResponse)),
		zap.String("ai_response_preview", rawResponse),
	)

	recipes, err := parseRecipes(rawResponse)
	if err != nil {
		common.LogError("食譜回覆解析失敗",
			zap.Error(err),
			zap.String("raw_response", rawResponse),
		)
		return nil, err
	}

	// 整批共用同一份除錯資訊
	debug := DebugInfo{
		MatchedWithDatabase: matchedDB,
		MatchedViaLLM:       matchedLLM,
		RawLLMResponse:      rawResponse,
	}

	result := make([]RecipeWithDebug, len(recipes))
	for i, r := range recipes {
		result[i] = RecipeWithDebug{
			Recipe:    r,
			DebugInfo: debug,
		}
	}

	return result, nil
}

// parseRecipes 解析模型回覆中的食譜列表。
// 回覆可能被 ``` 包裹或夾帶說明文字，先切出陣列部分再解析，
// 之後逐一驗證必要欄位。
func parseRecipes(raw string) ([]Recipe, error) {
	payload := common.ExtractJSONArray(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON list in generation reply")
	}

	var recipes []Recipe
	if err := common.ParseJSON(payload, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse generation reply: %w", err)
	}

	if len(recipes) == 0 {
		return nil, fmt.Errorf("generation reply contains no recipes")
	}

	for i, r := range recipes {
		if err := validateRecipe(&r); err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i+1, err)
		}
	}

	return recipes, nil
}

// validateRecipe 驗證單一食譜的必要欄位
func validateRecipe(r *Recipe) error {
	if r.Title == "" {
		return fmt.Errorf("missing title")
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("missing ingredients")
	}
	for j, ing := range r.Ingredients {
		if ing.Ingredient == "" {
			return fmt.Errorf("ingredient %d: missing name", j+1)
		}
	}
	if len(r.Instructions) == 0 {
		return fmt.Errorf("missing instructions")
	}
	if r.EstimatedCookingTime == "" {
		return fmt.Errorf("missing estimated_cooking_time")
	}
	if r.DifficultyLevel == "" {
		return fmt.Errorf("missing difficulty_level")
	}
	return nil
}
