package ingredient

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"recipe-ai-service/internal/core/ai/provider"
	"recipe-ai-service/internal/core/ai/service"
	"recipe-ai-service/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider 以固定規則回覆的提供者替身
type fakeProvider struct {
	respond func(prompt string) (string, error)
	calls   int64
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	atomic.AddInt64(&f.calls, 1)
	content, err := f.respond(req.Prompt)
	if err != nil {
		return nil, err
	}
	return &provider.Response{Content: content}, nil
}

func (f *fakeProvider) GetModel() string { return "fake-model" }
func (f *fakeProvider) Close() error     { return nil }

func newTestAIService(t *testing.T, respond func(prompt string) (string, error)) (*service.Service, *fakeProvider) {
	t.Helper()
	cfg := &config.Config{
		Cache: config.CacheConfig{Enabled: false},
		AI:    config.AIConfig{EnableCache: false, Workers: 2},
	}
	fake := &fakeProvider{respond: respond}
	svc, err := service.NewService(cfg, fake, nil)
	require.NoError(t, err)
	return svc, fake
}

func testDataset() *Dataset {
	return NewDataset(map[string]string{
		"chicken": "protein",
		"rice":    "carbs",
		"tomato":  "vegetables",
		"salt":    "seasoning",
	})
}

func TestResolveDatasetHitSkipsClassifier(t *testing.T) {
	svc, fake := newTestAIService(t, func(prompt string) (string, error) {
		return "", fmt.Errorf("classifier should not be called")
	})
	resolver := NewResolver(testDataset(), NewClassifier(svc), 2)

	res, ok := resolver.Resolve(context.Background(), "chicken")
	require.True(t, ok)
	assert.Equal(t, "chicken", res.Ingredient)
	assert.Equal(t, CategoryProtein, res.Category)
	assert.Equal(t, SourceDataset, res.Source)
	assert.Zero(t, atomic.LoadInt64(&fake.calls))
}

// 非核心分類的資料集命中仍然有效，只是不計入覆蓋閘門
func TestResolveDatasetHitNonCore(t *testing.T) {
	svc, _ := newTestAIService(t, func(prompt string) (string, error) {
		return "", fmt.Errorf("classifier should not be called")
	})
	resolver := NewResolver(testDataset(), NewClassifier(svc), 2)

	res, ok := resolver.Resolve(context.Background(), "salt")
	require.True(t, ok)
	assert.Equal(t, SourceDataset, res.Source)
	assert.False(t, res.Category.IsCore())
}

func TestResolveClassifierFallbackValid(t *testing.T) {
	svc, fake := newTestAIService(t, func(prompt string) (string, error) {
		return `{"valid": "YES", "category": "fruits"}`, nil
	})
	resolver := NewResolver(testDataset(), NewClassifier(svc), 2)

	res, ok := resolver.Resolve(context.Background(), "dragonfruit")
	require.True(t, ok)
	assert.Equal(t, "dragonfruit", res.Ingredient)
	assert.Equal(t, CategoryFruits, res.Category)
	assert.Equal(t, SourceAI, res.Source)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fake.calls))
}

func TestResolveClassifierRejects(t *testing.T) {
	svc, _ := newTestAIService(t, func(prompt string) (string, error) {
		return `{"valid": "NO", "category": "None"}`, nil
	})
	resolver := NewResolver(testDataset(), NewClassifier(svc), 2)

	_, ok := resolver.Resolve(context.Background(), "gravel")
	assert.False(t, ok)
}

// 外部服務失敗時保守處理：視為無效而不是錯誤
func TestResolveClassifierFailureFailClosed(t *testing.T) {
	svc, _ := newTestAIService(t, func(prompt string) (string, error) {
		return "", fmt.Errorf("upstream timeout")
	})
	resolver := NewResolver(testDataset(), NewClassifier(svc), 2)

	_, ok := resolver.Resolve(context.Background(), "mystery")
	assert.False(t, ok)
}

func TestResolveClassifierMalformedReply(t *testing.T) {
	replies := []string{
		"definitely a food",
		`{"valid": "MAYBE", "category": "None"}`,
		`{"valid": 123}`,
		// 嚴格解析：預期欄位之外的內容視為格式違規
		`{"valid": "YES", "category": "protein", "confidence": 0.9}`,
	}
	for _, reply := range replies {
		svc, _ := newTestAIService(t, func(prompt string) (string, error) {
			return reply, nil
		})
		resolver := NewResolver(testDataset(), NewClassifier(svc), 2)

		_, ok := resolver.Resolve(context.Background(), "mystery")
		assert.False(t, ok, "reply %q should be rejected", reply)
	}
}

// 分類器容忍 JSON 外的附加文字與程式碼包裹
func TestClassifyTolerantParsing(t *testing.T) {
	svc, _ := newTestAIService(t, func(prompt string) (string, error) {
		return "Sure! Here is the result:\n```json\n{\"valid\": \"yes\", \"category\": \"protein\"}\n```", nil
	})
	classifier := NewClassifier(svc)

	result, err := classifier.Classify(context.Background(), "quail egg")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, CategoryProtein, result.Category)
}

// 模型偶爾漏掉鍵引號，解析前先補上
func TestClassifyUnquotedKeys(t *testing.T) {
	svc, _ := newTestAIService(t, func(prompt string) (string, error) {
		return `{valid: "YES", category: "carbs"}`, nil
	})
	classifier := NewClassifier(svc)

	result, err := classifier.Classify(context.Background(), "millet")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, CategoryCarbs, result.Category)
}

func TestClassifyValidWithoutCoreCategory(t *testing.T) {
	svc, _ := newTestAIService(t, func(prompt string) (string, error) {
		return `{"valid": "YES", "category": "None"}`, nil
	})
	classifier := NewClassifier(svc)

	result, err := classifier.Classify(context.Background(), "nutmeg")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, CategoryNone, result.Category)
}

func TestResolveAllPreservesOrder(t *testing.T) {
	svc, _ := newTestAIService(t, func(prompt string) (string, error) {
		return `{"valid": "NO", "category": "None"}`, nil
	})
	resolver := NewResolver(testDataset(), NewClassifier(svc), 3)

	names := []string{"chicken", "gravel", "rice", "tomato", "plastic"}
	results := resolver.ResolveAll(context.Background(), names)

	require.Len(t, results, len(names))
	assert.Equal(t, "chicken", results[0].Ingredient)
	assert.Nil(t, results[1])
	assert.Equal(t, "rice", results[2].Ingredient)
	assert.Equal(t, "tomato", results[3].Ingredient)
	assert.Nil(t, results[4])
}

// 資料集未變時，同一輸入重複解析必須得到相同結果
func TestResolveIdempotent(t *testing.T) {
	svc, fake := newTestAIService(t, func(prompt string) (string, error) {
		return `{"valid": "YES", "category": "carbs"}`, nil
	})
	resolver := NewResolver(testDataset(), NewClassifier(svc), 2)

	first, ok1 := resolver.Resolve(context.Background(), "chicken")
	second, ok2 := resolver.Resolve(context.Background(), "chicken")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
	assert.Zero(t, atomic.LoadInt64(&fake.calls))
}
