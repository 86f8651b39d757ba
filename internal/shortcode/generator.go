package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"go.uber.org/zap"
)

const (
	// Charset 包含用于生成短码的所有字符
	Charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// CodeLength 是生成的短码的长度
	CodeLength = 6
)

var charsetSize = big.NewInt(int64(len(Charset)))

// Generator 生成随机短码。
// 不做唯一性检查，也不重试：冲突由数据库唯一索引拒绝，再提示用户重新提交。
type Generator struct {
	length int
	logger *zap.SugaredLogger
}

// NewGenerator 创建一个新的短码生成器实例
func NewGenerator(logger *zap.SugaredLogger) *Generator {
	return &Generator{
		length: CodeLength,
		logger: logger.Named("shortcode_generator"),
	}
}

// Generate 返回一个随机短码
func (g *Generator) Generate() (string, error) {
	code, err := g.generateRandomString(g.length)
	if err != nil {
		g.logger.Errorf("生成随机短码失败: %v", err)
		return "", fmt.Errorf("生成短码失败: %w", err)
	}
	return code, nil
}

// generateRandomString 使用加密安全的随机数生成器生成一个给定长度的字符串
func (g *Generator) generateRandomString(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, charsetSize)
		if err != nil {
			return "", err
		}
		b[i] = Charset[num.Int64()]
	}
	return string(b), nil
}
