package preference

import (
	"context"
	"fmt"
	"time"

	"recipe-ai-service/internal/infrastructure/config"
	"recipe-ai-service/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "preference:user:"

// Record 使用者的食材偏好文件
type Record struct {
	UserID              string    `json:"user_id"`
	LikedIngredients    []string  `json:"liked_ingredients"`
	ExcludedIngredients []string  `json:"excluded_ingredients"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Store 以使用者識別碼為鍵的偏好文件儲存
type Store struct {
	client *redis.Client
}

// NewStore 創建偏好儲存並驗證連線
func NewStore(cfg *config.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

// NewStoreWithClient 用現成的客戶端創建偏好儲存
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Save 保存或更新使用者的偏好
func (s *Store) Save(ctx context.Context, userID string, liked, excluded []string) error {
	if liked == nil {
		liked = []string{}
	}
	if excluded == nil {
		excluded = []string{}
	}

	record := Record{
		UserID:              userID,
		LikedIngredients:    liked,
		ExcludedIngredients: excluded,
		UpdatedAt:           time.Now().UTC(),
	}

	data, err := common.ToJSON(record)
	if err != nil {
		return fmt.Errorf("failed to marshal preference: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+userID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}

	common.LogInfo("偏好已寫入儲存",
		zap.String("user_id", userID),
		zap.Int("liked", len(liked)),
		zap.Int("excluded", len(excluded)),
	)

	return nil
}

// Get 讀取使用者的偏好，查無資料時返回 (nil, nil)
func (s *Store) Get(ctx context.Context, userID string) (*Record, error) {
	data, err := s.client.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	var record Record
	if err := common.ParseJSONBytes(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preference: %w", err)
	}

	return &record, nil
}

// Delete 刪除使用者的偏好，返回是否確實刪除了資料
func (s *Store) Delete(ctx context.Context, userID string) (bool, error) {
	deleted, err := s.client.Del(ctx, keyPrefix+userID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete preference: %w", err)
	}
	return deleted > 0, nil
}

// Ping 檢查儲存連線，供就緒檢查使用
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉儲存連線
func (s *Store) Close() error {
	return s.client.Close()
}
