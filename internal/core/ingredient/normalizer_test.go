package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "chicken", "chicken"},
		{"uppercase folded", "CHICKEN", "chicken"},
		{"mixed case folded", "ChIcKeN", "chicken"},
		{"inner space removed", "bell pepper", "bellpepper"},
		{"surrounding whitespace removed", "  tomato  ", "tomato"},
		{"tab and newline removed", "\tgreen\nbean", "greenbean"},
		{"plural singularized", "tomatoes", "tomato"},
		{"simple plural singularized", "carrots", "carrot"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

// 大小寫與空白不同的寫法必須收斂到同一個標準形式
func TestNormalizeEquivalence(t *testing.T) {
	variants := []string{"Chicken Breast", "chicken breast", "CHICKEN  BREAST", " chickenbreast "}

	first := Normalize(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, first, Normalize(v), "variant %q should normalize identically", v)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	assert.Equal(t, Normalize("Tomatoes"), Normalize("Tomatoes"))
}

func TestNormalizeAll(t *testing.T) {
	out := NormalizeAll([]string{"Chicken", "  Rice ", "tomatoes"})
	assert.Equal(t, []string{"chicken", "rice", "tomato"}, out)
}

func TestNormalizeAllEmpty(t *testing.T) {
	assert.Empty(t, NormalizeAll(nil))
	assert.Empty(t, NormalizeAll([]string{}))
}
