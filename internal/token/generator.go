package token

import (
	"crypto/rand"
	"fmt"
)

// CodeAlphabet 访问码字符表
// 仅含大写字母和数字，排除易混淆的 0/O/1/I
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength 访问码长度
const CodeLength = 8

// GenerateCode 生成 8 位访问码
// 每个字符独立均匀采样自 CodeAlphabet（32 个字符，256 可整除，取模无偏）
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("读取随机字节失败: %w", err)
	}

	code := make([]byte, CodeLength)
	for i, b := range buf {
		code[i] = CodeAlphabet[int(b)%len(CodeAlphabet)]
	}
	return string(code), nil
}
