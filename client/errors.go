package client

import (
	"errors"
	"fmt"

	"github.com/stackvault/client-sdk-go/types"
)

// Error 客户端错误
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("client error [%d]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("client error [%d]: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// 错误码定义
const (
	ErrCodeNetwork         = 1000 // 网络错误
	ErrCodeTimeout         = 1001 // 超时错误
	ErrCodeInvalidResponse = 1002 // 无效响应
	ErrCodeInvalidParams   = 1003 // 参数错误
	ErrCodeTxFailed        = 1004 // 交易执行失败
)

// NewNetworkError 创建网络错误
func NewNetworkError(err error) *Error {
	return &Error{
		Code:    ErrCodeNetwork,
		Message: "network error",
		Err:     err,
	}
}

// NewTimeoutError 创建超时错误
func NewTimeoutError(message string) *Error {
	return &Error{
		Code:    ErrCodeTimeout,
		Message: message,
	}
}

// NewInvalidResponseError 创建无效响应错误
func NewInvalidResponseError(message string, err error) *Error {
	return &Error{
		Code:    ErrCodeInvalidResponse,
		Message: message,
		Err:     err,
	}
}

// NewInvalidParamsError 创建参数错误
func NewInvalidParamsError(message string) *Error {
	return &Error{
		Code:    ErrCodeInvalidParams,
		Message: message,
	}
}

// NewTxFailedError 创建交易执行失败错误
func NewTxFailedError(hash, vmStatus string) *Error {
	return &Error{
		Code:    ErrCodeTxFailed,
		Message: fmt.Sprintf("transaction %s failed: %s", hash, vmStatus),
	}
}

// IsNotFound 错误是否表示资源 / 账户 / 交易不存在
//
// 只有节点明确返回 not-found 时才为 true，网络错误、5xx 等返回 false。
func IsNotFound(err error) bool {
	if nodeErr, ok := types.IsNodeError(err); ok {
		return nodeErr.NotFound()
	}
	return false
}

// HasCode 错误链中是否包含指定错误码的 *Error
func HasCode(err error, code int) bool {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Code == code
	}
	return false
}
