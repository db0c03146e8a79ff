package util

import "errors"

// 错误分类：service 层用 fmt.Errorf("%w: ...") 包装补充上下文
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)
