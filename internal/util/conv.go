package util

import (
	"strconv"
)

// ParseIndex 解析路径中的非负下标，非法时返回 ErrInvalidIndex
func ParseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, ErrInvalidIndex
	}
	return n, nil
}
