package recipe

import (
	"testing"

	"recipe-ai-service/internal/core/ingredient"
	"recipe-ai-service/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConflicts(t *testing.T) {
	err := CheckConflicts([]string{"chicken", "rice"}, []string{"tomato"})
	assert.NoError(t, err)

	err = CheckConflicts([]string{"chicken"}, []string{"chicken"})
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
	assert.Contains(t, err.Error(), "chicken")
	assert.Contains(t, err.Error(), "Conflicting preferences detected")
}

// 衝突訊息按字母序列出所有衝突食材，且不重複
func TestCheckConflictsMultiple(t *testing.T) {
	err := CheckConflicts(
		[]string{"rice", "chicken", "rice"},
		[]string{"chicken", "rice"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chicken, rice")
}

func TestCheckConflictsEmptyLists(t *testing.T) {
	assert.NoError(t, CheckConflicts(nil, nil))
	assert.NoError(t, CheckConflicts([]string{}, []string{"chicken"}))
}

func resolution(name string, category ingredient.Category) *ingredient.Resolution {
	return &ingredient.Resolution{
		Ingredient: name,
		Category:   category,
		Source:     ingredient.SourceDataset,
	}
}

func TestCheckResolvedCount(t *testing.T) {
	// 兩個有效食材不足以通過數量閘門
	err := CheckResolved([]*ingredient.Resolution{
		resolution("chicken", ingredient.CategoryProtein),
		resolution("rice", ingredient.CategoryCarbs),
	})
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
	assert.Contains(t, err.Error(), "at least 3")

	// 三個剛好通過
	err = CheckResolved([]*ingredient.Resolution{
		resolution("chicken", ingredient.CategoryProtein),
		resolution("rice", ingredient.CategoryCarbs),
		resolution("tomato", ingredient.CategoryVegetables),
	})
	assert.NoError(t, err)
}

func TestCheckResolvedCoverage(t *testing.T) {
	// 全是非核心分類時覆蓋閘門擋下
	err := CheckResolved([]*ingredient.Resolution{
		resolution("salt", "seasoning"),
		resolution("pepper", "seasoning"),
		resolution("water", "other"),
	})
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
	assert.Contains(t, err.Error(), "vegetable, carb, protein, or fruit")

	// 任一核心分類即可通過
	err = CheckResolved([]*ingredient.Resolution{
		resolution("salt", "seasoning"),
		resolution("pepper", "seasoning"),
		resolution("apple", ingredient.CategoryFruits),
	})
	assert.NoError(t, err)
}

// 有效但未分類的食材計入數量、不計入覆蓋
func TestCheckResolvedUncategorized(t *testing.T) {
	err := CheckResolved([]*ingredient.Resolution{
		resolution("nutmeg", ingredient.CategoryNone),
		resolution("saffron", ingredient.CategoryNone),
		resolution("vanilla", ingredient.CategoryNone),
	})
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}
