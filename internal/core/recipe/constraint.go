package recipe

import (
	"fmt"
	"sort"
	"strings"

	"recipe-ai-service/internal/core/ingredient"
	"recipe-ai-service/internal/pkg/common"
)

// MinValidIngredients 有效食材的最低數量
const MinValidIngredients = 3

// CheckConflicts 衝突閘門：同一食材不可同時出現在喜好與排除清單。
// 兩份清單都必須已是標準形式。違反時返回列出衝突食材的驗證錯誤。
// 在任何解析工作之前執行，讓明確的呼叫端錯誤快速失敗。
func CheckConflicts(liked, excluded []string) error {
	excludedSet := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		excludedSet[name] = struct{}{}
	}

	seen := make(map[string]struct{})
	var conflicts []string
	for _, name := range liked {
		if _, ok := excludedSet[name]; ok {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				conflicts = append(conflicts, name)
			}
		}
	}

	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return common.NewValidationError(fmt.Sprintf(
			"Conflicting preferences detected. These ingredients cannot be both liked and excluded: %s",
			strings.Join(conflicts, ", ")))
	}

	return nil
}

// CheckResolved 對解析完成的食材執行數量與覆蓋閘門。
// 數量閘門：至少 MinValidIngredients 個食材成功解析。
// 覆蓋閘門：解析出的分類必須與核心分類集合有交集。
// 兩者都是硬性失敗，不做部分降級。
func CheckResolved(resolved []*ingredient.Resolution) error {
	if len(resolved) < MinValidIngredients {
		return common.NewValidationError(fmt.Sprintf(
			"Not enough valid ingredients. Provide at least %d food ingredients.",
			MinValidIngredients))
	}

	for _, res := range resolved {
		if res.Category.IsCore() {
			return nil
		}
	}

	return common.NewValidationError(
		"At least one ingredient should be a vegetable, carb, protein, or fruit.")
}
