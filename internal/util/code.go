package util

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// GenerateCode 生成定长验证码，字符取自 CodeAlphabet
func GenerateCode(length int) (string, error) {
	max := big.NewInt(int64(len(CodeAlphabet)))
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(CodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeCode 去除空白并转为大写
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode 判断验证码长度和字符是否合法
func ValidCode(code string, length int) bool {
	if len(code) != length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(CodeAlphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
