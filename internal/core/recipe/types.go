package recipe

// RecipeIngredient 食譜中的食材與份量
type RecipeIngredient struct {
	Ingredient string `json:"ingredient"`
	Quantity   string `json:"quantity"`
}

// Recipe 生成的食譜。只由 Generator 從外部服務的回覆建構。
type Recipe struct {
	Title                string             `json:"title"`
	Ingredients          []RecipeIngredient `json:"ingredients"`
	Instructions         []string           `json:"instructions"`
	EstimatedCookingTime string             `json:"estimated_cooking_time"` // 例如 "20 minutes"
	DifficultyLevel      string             `json:"difficulty_level"`       // 例如 "Easy", "Medium", "Hard"
}

// DebugInfo 單次生成的除錯資訊：食材驗證來源與模型原始回覆。
// 同一批次的每個食譜都附帶相同的 DebugInfo。
type DebugInfo struct {
	MatchedWithDatabase []string `json:"matched_with_database"`
	MatchedViaLLM       []string `json:"matched_via_llm"`
	RawLLMResponse      string   `json:"raw_llm_response"`
}

// RecipeWithDebug 含除錯資訊的食譜
type RecipeWithDebug struct {
	Recipe
	DebugInfo DebugInfo `json:"debug_info"`
}
