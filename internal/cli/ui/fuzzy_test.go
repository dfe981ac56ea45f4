package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"orders", "orders", 0},
		{"名前", "名", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"orders", "items", "customers", "Orders2"}

	assert.Equal(t, []string{"orders", "Orders2"}, FindSimilar("ordrs", candidates, nil))
	assert.Equal(t, []string{"orders", "Orders2"}, FindSimilar("ORDERS", candidates, &FuzzyMatchOptions{MaxDistance: 1}))
	assert.Empty(t, FindSimilar("ORDERS", candidates, &FuzzyMatchOptions{MaxDistance: 1, CaseSensitive: true}))
	assert.Len(t, FindSimilar("x", []string{"a", "b", "c", "d"}, &FuzzyMatchOptions{MaxSuggestions: 2}), 2)
	assert.Empty(t, FindSimilar("invoices", candidates, nil))
}

func TestFindBestMatch(t *testing.T) {
	assert.Equal(t, "Sales.Order", FindBestMatch("Sales.Ordr", []string{"Sales.Customer", "Sales.Order"}, nil))
	assert.Equal(t, "", FindBestMatch("Invoice", []string{"Sales.Order"}, nil))
}
