package ingredient

import (
	"strings"
)

// Category 食材分類標籤
type Category string

// 核心分類，食譜請求至少要涵蓋其中一類
const (
	CategoryProtein    Category = "protein"
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryCarbs      Category = "carbs"

	// CategoryNone 有效但未分類
	CategoryNone Category = ""
)

// CoreCategories 核心分類集合
var CoreCategories = map[Category]struct{}{
	CategoryProtein:    {},
	CategoryVegetables: {},
	CategoryFruits:     {},
	CategoryCarbs:      {},
}

// IsCore 檢查是否為核心分類
func (c Category) IsCore() bool {
	_, ok := CoreCategories[c]
	return ok
}

// ParseCategory 將外部來源的分類字串轉為 Category。
// "None"、"null" 或空字串視為未分類；其餘一律轉小寫並去除空格。
func ParseCategory(s string) Category {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if s == "" || s == "none" || s == "null" {
		return CategoryNone
	}
	return Category(s)
}
