package preference

import (
	"net/http"

	"recipe-ai-service/internal/infrastructure/preference"
	"recipe-ai-service/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 偏好處理程序
type Handler struct {
	store *preference.Store
}

// NewHandler 創建新的偏好處理程序
func NewHandler(store *preference.Store) *Handler {
	return &Handler{
		store: store,
	}
}

// HandleGet 讀取使用者偏好
func (h *Handler) HandleGet(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}

	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	record, err := h.store.Get(c.Request.Context(), userID)
	if err != nil {
		common.LogError("偏好讀取失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve preference"})
		return
	}

	if record == nil {
		common.LogInfo("查無使用者偏好",
			zap.String("request_id", requestID),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusNotFound, gin.H{"message": "No preference found."})
		return
	}

	c.JSON(http.StatusOK, record)
}

// HandleDelete 刪除使用者偏好
func (h *Handler) HandleDelete(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}

	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	deleted, err := h.store.Delete(c.Request.Context(), userID)
	if err != nil {
		common.LogError("偏好刪除失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("user_id", userID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete preference"})
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"message": "No preference found to delete."})
		return
	}

	common.LogInfo("偏好已刪除",
		zap.String("request_id", requestID),
		zap.String("user_id", userID),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Preference deleted successfully."})
}
