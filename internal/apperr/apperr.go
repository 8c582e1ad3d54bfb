// Package apperr 定义了业务层统一的错误分类。
// handler 层根据错误类别映射到对应的 HTTP 状态码。
package apperr

import (
	"errors"
	"fmt"
)

// Kind 表示错误的业务类别。
type Kind int

const (
	// KindNotFound 实体不存在，或不属于当前调用者。
	KindNotFound Kind = iota + 1
	// KindValidation 输入不合法（非法枚举值、非法章节、文件类型/大小超限等）。
	KindValidation
	// KindConflict 操作与当前状态冲突（如删除默认模板）。
	KindConflict
	// KindGeneration 外部 AI/OCR 能力调用失败。
	KindGeneration
)

// Error 是携带业务类别的错误类型。
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error 实现 error 接口。
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 支持 errors.Is / errors.As 链式匹配。
func (e *Error) Unwrap() error {
	return e.Cause
}

// NotFound 构造一个"不存在"错误。
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Validation 构造一个参数校验错误。
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Validationf 使用格式化字符串构造一个参数校验错误。
func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict 构造一个状态冲突错误。
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Generation 构造一个外部生成能力调用失败的错误，保留底层原因。
func Generation(message string, cause error) *Error {
	return &Error{Kind: KindGeneration, Message: message, Cause: cause}
}

// KindOf 返回错误的业务类别，非 apperr 错误返回 0。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNotFound 判断错误是否为"不存在"类别。
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation 判断错误是否为参数校验类别。
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
