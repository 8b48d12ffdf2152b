package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNickname(t *testing.T) {
	for range 20 {
		name := GenerateNickname()
		assert.NotEmpty(t, name)
		assert.True(t, strings.HasSuffix(name, "牛") || strings.HasSuffix(name, "羊") ||
			strings.HasSuffix(name, "驼") || strings.HasSuffix(name, "马"), name)
	}
}
