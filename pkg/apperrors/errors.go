package apperrors

import (
	"errors"
	"fmt"
)

// Kind 错误类别，决定 HTTP 状态码的映射
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindNotEligible
	KindConflict
)

// Error 业务错误
// NotEligible 和 ValidationError 不能混用：前者是"请求合法但业务规则拒绝"，
// 后者是"请求本身不合法"。Reason 是机器可读的失败原因，给客户端做分支判断用。
type Error struct {
	Kind    Kind
	Code    int    // 业务码（pkg/response 中定义），0 表示按 Kind 取默认值
	Reason  string // 机器可读原因，如 "daily_limit_exceeded"
	Message string // 人类可读信息
	Err     error  // 底层错误
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound 资源不存在
func NotFound(code int, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Reason: "not_found", Message: message}
}

// Validation 请求不合法
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Reason: "validation_failed", Message: message}
}

// NotEligible 业务规则拒绝，reason 标明第一条未通过的规则
func NotEligible(reason, message string) *Error {
	return &Error{Kind: KindNotEligible, Reason: reason, Message: message}
}

// Conflict 唯一性冲突（重复邮箱、定向到不存在的客户等）
func Conflict(code int, reason, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Reason: reason, Message: message}
}

// Internal 内部错误，包装底层错误
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Reason: "internal_error", Message: "internal server error", Err: err}
}

// As 提取业务错误
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotEligible 判断是否为业务规则拒绝
func IsNotEligible(err error) bool {
	if appErr, ok := As(err); ok {
		return appErr.Kind == KindNotEligible
	}
	return false
}
