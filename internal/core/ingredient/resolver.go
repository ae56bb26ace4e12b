package ingredient

import (
	"context"
	"sync"

	"recipe-ai-service/internal/pkg/common"

	"go.uber.org/zap"
)

// Source 食材驗證來源
type Source string

const (
	// SourceDataset 由本地資料集確認
	SourceDataset Source = "dataset"
	// SourceAI 由外部推論服務確認
	SourceAI Source = "ai"
)

// Resolution 單一食材的解析結果
type Resolution struct {
	Ingredient string   // 標準形式
	Category   Category // 可能為空（有效但未分類）
	Source     Source
}

// Resolver 食材解析器：資料集優先，查無時退回外部分類器。
// 資料集命中視為權威結果，直接跳過外部呼叫。
type Resolver struct {
	dataset    *Dataset
	classifier *Classifier
	workers    int
}

// NewResolver 創建解析器，workers 為併發解析上限
func NewResolver(dataset *Dataset, classifier *Classifier, workers int) *Resolver {
	if workers <= 0 {
		workers = 1
	}
	return &Resolver{
		dataset:    dataset,
		classifier: classifier,
		workers:    workers,
	}
}

// Resolve 解析單一標準形式食材。
// 返回 false 表示食材被排除（非食材、或分類失敗的保守處理），
// 這是預期的輸入雜訊，不是錯誤。
func (r *Resolver) Resolve(ctx context.Context, name string) (*Resolution, bool) {
	// 第一層：資料集精確查詢
	if category, ok := r.dataset.Lookup(name); ok {
		return &Resolution{
			Ingredient: name,
			Category:   category,
			Source:     SourceDataset,
		}, true
	}

	common.LogInfo("資料集查無食材，改用外部服務判斷",
		zap.String("ingredient", name),
	)

	// 第二層：外部分類器，失敗時一律視為無效（fail-closed）
	result, err := r.classifier.Classify(ctx, name)
	if err != nil {
		common.LogWarn("食材分類失敗，本次視為無效",
			zap.String("ingredient", name),
			zap.Error(err),
		)
		return nil, false
	}

	if !result.Valid {
		common.LogWarn("外部服務判定不是有效的食材",
			zap.String("ingredient", name),
		)
		return nil, false
	}

	return &Resolution{
		Ingredient: name,
		Category:   result.Category,
		Source:     SourceAI,
	}, true
}

// ResolveAll 解析整個食材列表。
// 各食材之間沒有共享可變狀態，以有界併發分散解析；
// 結果切片與輸入等長且順序一致，未解析的位置為 nil。
func (r *Resolver) ResolveAll(ctx context.Context, names []string) []*Resolution {
	results := make([]*Resolution, len(names))

	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-sem }()

			if res, ok := r.Resolve(ctx, name); ok {
				results[i] = res
			}
		}(i, name)
	}

	wg.Wait()
	return results
}
