package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-ai-service/internal/core/ai/provider"
	"recipe-ai-service/internal/core/ai/service"
	"recipe-ai-service/internal/core/ingredient"
	recipeService "recipe-ai-service/internal/core/recipe"
	"recipe-ai-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	respond func(prompt string) (string, error)
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	content, err := f.respond(req.Prompt)
	if err != nil {
		return nil, err
	}
	return &provider.Response{Content: content}, nil
}

func (f *fakeProvider) GetModel() string { return "fake-model" }
func (f *fakeProvider) Close() error     { return nil }

type noopPreferenceStore struct{}

func (noopPreferenceStore) Save(ctx context.Context, userID string, liked, excluded []string) error {
	return nil
}

type failingPreferenceStore struct{}

func (failingPreferenceStore) Save(ctx context.Context, userID string, liked, excluded []string) error {
	return fmt.Errorf("connection refused")
}

const recipeListJSON = `[
  {
    "title": "Chicken Rice Bowl",
    "ingredients": [
      {"ingredient": "chicken", "quantity": "200g"},
      {"ingredient": "rice", "quantity": "1 cup"}
    ],
    "instructions": ["Cook rice.", "Grill chicken.", "Assemble bowl."],
    "estimated_cooking_time": "30 minutes",
    "difficulty_level": "Easy"
  }
]`

func newTestRouter(t *testing.T, respond func(prompt string) (string, error)) *gin.Engine {
	return newTestRouterWithStore(t, respond, noopPreferenceStore{})
}

func newTestRouterWithStore(t *testing.T, respond func(prompt string) (string, error), store recipeService.PreferenceStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Cache: config.CacheConfig{Enabled: false},
		AI:    config.AIConfig{Workers: 2},
	}
	aiService, err := service.NewService(cfg, &fakeProvider{respond: respond}, nil)
	require.NoError(t, err)

	dataset := ingredient.NewDataset(map[string]string{
		"chicken": "protein",
		"rice":    "carbs",
		"tomato":  "vegetables",
	})
	resolver := ingredient.NewResolver(dataset, ingredient.NewClassifier(aiService), 2)
	pipeline := recipeService.NewService(resolver, recipeService.NewGenerator(aiService), store)

	router := gin.New()
	router.POST("/api/v1/recipe/generate", NewHandler(pipeline).HandleGenerate)
	return router
}

func postGenerate(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipe/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleGenerate(t *testing.T) {
	router := newTestRouter(t, func(prompt string) (string, error) {
		return recipeListJSON, nil
	})

	w := postGenerate(t, router, `{
		"user_id": "user-1",
		"available_ingredients": ["chicken", "rice", "tomato"],
		"liked_ingredients": ["chicken"]
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp struct {
		Recipes []recipeService.RecipeWithDebug `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Recipes, 1)
	assert.Equal(t, "Chicken Rice Bowl", resp.Recipes[0].Title)
	assert.ElementsMatch(t, []string{"chicken", "rice", "tomato"}, resp.Recipes[0].DebugInfo.MatchedWithDatabase)
}

func TestHandleGenerateInvalidBody(t *testing.T) {
	router := newTestRouter(t, func(prompt string) (string, error) {
		return recipeListJSON, nil
	})

	for _, body := range []string{
		`not json`,
		`{}`,
		`{"user_id": "user-1"}`,
		`{"user_id": "user-1", "available_ingredients": []}`,
	} {
		w := postGenerate(t, router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

// 喜好與排除必須是可用食材的子集
func TestHandleGenerateSubsetViolation(t *testing.T) {
	router := newTestRouter(t, func(prompt string) (string, error) {
		return recipeListJSON, nil
	})

	w := postGenerate(t, router, `{
		"user_id": "user-1",
		"available_ingredients": ["chicken", "rice", "tomato"],
		"liked_ingredients": ["durian"]
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'durian' must be in available_ingredients")
}

// 子集檢查不分大小寫
func TestHandleGenerateSubsetCaseInsensitive(t *testing.T) {
	router := newTestRouter(t, func(prompt string) (string, error) {
		return recipeListJSON, nil
	})

	w := postGenerate(t, router, `{
		"user_id": "user-1",
		"available_ingredients": ["Chicken", "rice", "tomato"],
		"excluded_ingredients": ["CHICKEN"]
	}`)
	assert.NotEqual(t, http.StatusBadRequest, w.Code)
}

func TestHandleGenerateConflict(t *testing.T) {
	router := newTestRouter(t, func(prompt string) (string, error) {
		return recipeListJSON, nil
	})

	w := postGenerate(t, router, `{
		"user_id": "user-1",
		"available_ingredients": ["chicken", "rice", "tomato"],
		"liked_ingredients": ["chicken"],
		"excluded_ingredients": ["chicken"]
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Conflicting preferences detected")
}

// 偏好儲存故障對應為內部錯誤，不混入上游 AI 錯誤
func TestHandleGenerateStoreFailure(t *testing.T) {
	router := newTestRouterWithStore(t, func(prompt string) (string, error) {
		return recipeListJSON, nil
	}, failingPreferenceStore{})

	w := postGenerate(t, router, `{
		"user_id": "user-1",
		"available_ingredients": ["chicken", "rice", "tomato"]
	}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to save preferences")
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, w.Body.String(), "AI_SERVICE_ERROR")
}

// 生成回覆無法解析對應為上游錯誤
func TestHandleGenerateUpstreamFailure(t *testing.T) {
	router := newTestRouter(t, func(prompt string) (string, error) {
		if strings.Contains(prompt, "food ingredient?") {
			return `{"valid": "NO", "category": "None"}`, nil
		}
		return "no recipes today", nil
	})

	w := postGenerate(t, router, `{
		"user_id": "user-1",
		"available_ingredients": ["chicken", "rice", "tomato"]
	}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Recipe generation failed")
	assert.Contains(t, w.Body.String(), "AI_SERVICE_ERROR")
}

func TestValidateSubset(t *testing.T) {
	available := []string{"Chicken", "rice"}

	assert.NoError(t, validateSubset(nil, available))
	assert.NoError(t, validateSubset([]string{"chicken"}, available))
	assert.NoError(t, validateSubset([]string{"RICE"}, available))

	err := validateSubset([]string{"pork"}, available)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'pork'")
}
