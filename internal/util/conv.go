package util

import (
	"strconv"
)

// ParseUint 严格解析路径/查询参数里的数字 ID，非法输入由调用方转成 400
func ParseUint(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
