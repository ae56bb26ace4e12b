package recipe

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	recipeService "recipe-ai-service/internal/core/recipe"
	"recipe-ai-service/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateRequest 依可用食材與偏好生成食譜的請求
type GenerateRequest struct {
	UserID               string   `json:"user_id" binding:"required"`
	AvailableIngredients []string `json:"available_ingredients" binding:"required,min=1"`
	LikedIngredients     []string `json:"liked_ingredients,omitempty"`    // 偏好食材，必須是可用食材的子集
	ExcludedIngredients  []string `json:"excluded_ingredients,omitempty"` // 排除食材，必須是可用食材的子集
}

// Handler 食譜處理程序
type Handler struct {
	recipeService *recipeService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipeService *recipeService.Service) *Handler {
	return &Handler{
		recipeService: recipeService,
	}
}

// HandleGenerate 生成食譜
func (h *Handler) HandleGenerate(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	// 喜好與排除必須是可用食材的子集（不分大小寫），在管線執行前檢查
	if err := validateSubset(req.LikedIngredients, req.AvailableIngredients); err != nil {
		common.LogWarn("偏好食材驗證未通過",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateSubset(req.ExcludedIngredients, req.AvailableIngredients); err != nil {
		common.LogWarn("排除食材驗證未通過",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipes, err := h.recipeService.GenerateRecipes(c.Request.Context(), &recipeService.Request{
		UserID:               req.UserID,
		AvailableIngredients: req.AvailableIngredients,
		LikedIngredients:     req.LikedIngredients,
		ExcludedIngredients:  req.ExcludedIngredients,
	})
	if err != nil {
		// 約束與輸入問題返回 400，其餘視為服務錯誤
		if common.IsValidationError(err) {
			common.LogWarn("食譜請求未通過驗證",
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// 帶狀態碼的內部錯誤（例如偏好儲存故障）原樣對應，
		// 不和上游 AI 失敗混為一談
		var customErr *common.CustomError
		if errors.As(err, &customErr) {
			common.LogError("食譜請求處理失敗",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.String("code", customErr.Code),
			)
			c.JSON(customErr.Status, gin.H{
				"error": customErr.Message,
				"code":  customErr.Code,
			})
			return
		}

		common.LogError("食譜生成失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Recipe generation failed",
			"code":  common.ErrAIServiceError.Code,
		})
		return
	}

	common.LogInfo("食譜生成請求完成",
		zap.String("request_id", requestID),
		zap.String("user_id", req.UserID),
		zap.Int("recipes", len(recipes)),
	)

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// validateSubset 檢查 subset 的每個項目都出現在 available 中（不分大小寫）
func validateSubset(subset, available []string) error {
	availableSet := make(map[string]struct{}, len(available))
	for _, name := range available {
		availableSet[strings.ToLower(name)] = struct{}{}
	}

	for _, name := range subset {
		if _, ok := availableSet[strings.ToLower(name)]; !ok {
			return fmt.Errorf("'%s' must be in available_ingredients", name)
		}
	}
	return nil
}
