package ingredient

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Normalize 將原始食材字串正規化為標準形式：
// 全部轉小寫、移除所有空白字元，再做一次單數化（複數還原為單數）。
// 純函式，永不失敗；大小寫與空白不同的輸入會得到相同的結果。
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return inflection.Singular(s)
}

// NormalizeAll 正規化整個列表，保留原始順序
func NormalizeAll(raws []string) []string {
	out := make([]string, len(raws))
	for i, raw := range raws {
		out[i] = Normalize(raw)
	}
	return out
}
