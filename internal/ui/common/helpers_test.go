package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short name within limit", "Alice", 10, "Alice"},
		{"exact length", "HelloWorld", 10, "HelloWorld"},
		{"long name truncated", "VeryLongPlayerName", 10, "VeryLongP…"},
		{"chinese name truncated", "可爱的龙猫", 4, "可爱的…"},
		{"empty name", "", 10, ""},
		{"single char limit", "Hello", 1, "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, TruncateName(tt.input, tt.maxLen))
		})
	}
}

func TestCardStyle_ByHeads(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SevenHeadStyle, CardStyle(33))
	assert.Equal(t, FiveHeadStyle, CardStyle(13))
	assert.Equal(t, ThreeHeadStyle, CardStyle(7))
	assert.Equal(t, PlainStyle, CardStyle(40))
}
