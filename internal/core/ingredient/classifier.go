package ingredient

import (
	"context"
	"fmt"

	"recipe-ai-service/internal/core/ai/service"
	"recipe-ai-service/internal/pkg/common"

	"go.uber.org/zap"
)

// 分類請求的取樣參數：判斷型任務用零溫度、極短回覆
const (
	classifyTemperature = 0
	classifyMaxTokens   = 20
)

// Classification 外部服務的分類結果
type Classification struct {
	Valid    bool     // 是否為食材
	Category Category // 核心分類，可能為空
}

// Classifier 外部驗證與分類器。
// 只在資料集查無食材時使用，要求模型以嚴格 JSON 回覆。
type Classifier struct {
	aiService *service.Service
}

// NewClassifier 創建分類器
func NewClassifier(aiService *service.Service) *Classifier {
	return &Classifier{
		aiService: aiService,
	}
}

// classifyReply 模型的預期回覆格式
type classifyReply struct {
	Valid    string `json:"valid"`
	Category string `json:"category"`
}

// Classify 請外部服務判斷食材有效性並指定分類。
// 任何失敗（傳輸錯誤、超時、回覆無法解析）都由呼叫端視為無效處理。
func (c *Classifier) Classify(ctx context.Context, name string) (*Classification, error) {
	prompt := fmt.Sprintf(
		"Is '%s' a food ingredient? Reply only with YES or NO. "+
			"If YES, specify category from ['protein', 'vegetables', 'fruits', 'carbs']. If none, return 'None'. "+
			`Strictly output JSON: {"valid": "YES/NO", "category": "core_category_or_None"}.`,
		name)

	resp, err := c.aiService.ProcessRequest(ctx, prompt, service.Options{
		Temperature: classifyTemperature,
		MaxTokens:   classifyMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}

	common.LogDebug("分類器原始回覆",
		zap.String("ingredient", name),
		zap.String("reply", resp.Content),
	)

	// 模型可能在 JSON 外附加文字或程式碼包裹，先切出物件部分，
	// 並補上偶爾漏掉的鍵引號
	payload := common.ExtractJSONObject(resp.Content)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in classification reply: %q", resp.Content)
	}
	payload = common.QuoteJSONKeys(payload)

	// 嚴格解析：回覆只允許 valid 與 category 兩個欄位，多餘欄位視為格式違規
	var reply classifyReply
	if err := common.ParseJSONStrict(payload, &reply); err != nil {
		return nil, fmt.Errorf("failed to parse classification reply: %w (reply: %s)", err, resp.Content)
	}

	result := &Classification{}
	switch reply.Valid {
	case "YES", "yes", "Yes":
		result.Valid = true
		result.Category = ParseCategory(reply.Category)
	case "NO", "no", "No":
		result.Valid = false
	default:
		return nil, fmt.Errorf("unexpected valid field in classification reply: %q", reply.Valid)
	}

	return result, nil
}
