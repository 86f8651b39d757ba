package shortcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator(zap.NewNop().Sugar())

	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		assert.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(Charset, r), "非法字符 %q", r)
		}
		seen[code] = struct{}{}
	}
	// 62^6 的空间里 500 次抽样几乎不可能全部重复
	assert.Greater(t, len(seen), 490)
}

func TestCharset(t *testing.T) {
	assert.Len(t, Charset, 62)
	unique := make(map[rune]struct{})
	for _, r := range Charset {
		unique[r] = struct{}{}
	}
	assert.Len(t, unique, 62)
}

func TestIsReserved(t *testing.T) {
	for _, code := range []string{"admin", "login", "logout", "stats", "toggle"} {
		assert.True(t, IsReserved(code), code)
	}
	assert.False(t, IsReserved("Admin"))
	assert.False(t, IsReserved("abc123"))
	assert.False(t, IsReserved(""))
}

func TestValidCustom(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"my-link", true},
		{"a", true},
		{"Under_score9", true},
		{"", false},
		{"has space", false},
		{"slash/code", false},
		{"中文", false},
		{strings.Repeat("x", MaxCustomLength), true},
		{strings.Repeat("x", MaxCustomLength+1), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidCustom(tt.code), "code=%q", tt.code)
	}
}
