package ingredient

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"recipe-ai-service/internal/pkg/common"

	"go.uber.org/zap"
)

// Dataset 食材分類資料集。啟動時載入一次，之後唯讀共享，
// 作為分類判斷的第一層權威來源。
type Dataset struct {
	categories map[string]Category
}

// NewDataset 直接從映射建立資料集，鍵值會套用與載入時相同的正規化
func NewDataset(entries map[string]string) *Dataset {
	categories := make(map[string]Category, len(entries))
	for name, category := range entries {
		categories[Normalize(name)] = ParseCategory(category)
	}
	return &Dataset{categories: categories}
}

// LoadDataset 從 CSV 檔案載入資料集。
// 預期格式為兩欄（Ingredient, Category），第一列為標題。
// 兩側在載入時以與查詢相同的方式正規化。
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("dataset is empty: %s", path)
	}

	categories := make(map[string]Category, len(records))
	for i, record := range records {
		// 跳過標題列
		if i == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "ingredient") {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("dataset row %d: expected 2 columns, got %d", i+1, len(record))
		}

		name := Normalize(record[0])
		if name == "" {
			continue
		}
		categories[name] = ParseCategory(record[1])
	}

	common.LogInfo("食材資料集已載入",
		zap.String("path", path),
		zap.Int("entries", len(categories)),
	)

	return &Dataset{categories: categories}, nil
}

// Lookup 以標準形式精確查詢食材分類。
// 查無資料是正常結果，不是錯誤。
func (d *Dataset) Lookup(name string) (Category, bool) {
	category, ok := d.categories[name]
	return category, ok
}

// Contains 檢查食材是否存在於資料集中
func (d *Dataset) Contains(name string) bool {
	_, ok := d.categories[name]
	return ok
}

// Size 返回資料集條目數
func (d *Dataset) Size() int {
	return len(d.categories)
}
