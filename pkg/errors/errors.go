package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是稳定的机器可读错误码（如BOOK_001），客户端据此判断错误类型
// 2. Status是对应的HTTP状态码，由响应层使用
// 3. Message是用户友好的提示信息
// 4. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    string `json:"errorCode"` // 业务错误码
	Status  int    `json:"-"`         // HTTP状态码
	Message string `json:"message"`   // 用户友好的错误提示
	Err     error  `json:"-"`         // 内部错误（不序列化）

	base *AppError // 派生来源（WithMessage）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 派生错误（如含ID的NotFound）与其预定义错误视为同一种错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.base != nil && e.base == t
}

// New 创建新的AppError
func New(code string, status int, message string) *AppError {
	return &AppError{
		Code:    code,
		Status:  status,
		Message: message,
	}
}

// WithMessage 基于已有错误码派生一个新消息的错误
// 用途：NotFound/DuplicateIsbn需要在消息中携带ID或ISBN
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	base := e
	if e.base != nil {
		base = e.base
	}
	return &AppError{
		Code:    e.Code,
		Status:  e.Status,
		Message: fmt.Sprintf(format, args...),
		Err:     e.Err,
		base:    base,
	}
}

// WithCause 保留错误码和消息，附加内部原因（仅用于日志）
func (e *AppError) WithCause(err error) *AppError {
	derived := e.WithMessage("%s", e.Message)
	derived.Err = err
	return derived
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - COMMON_xxx: 通用错误（参数、方法、系统）
// - BOOK_xxx: 图书业务错误

const (
	CodeInvalidInput       = "COMMON_001" // 参数错误
	CodeMethodNotAllowed   = "COMMON_002" // 不支持的HTTP方法
	CodeInternal           = "COMMON_003" // 内部错误
	CodeRouteNotFound      = "COMMON_004" // 路由不存在
	CodeStorageUnavailable = "COMMON_005" // 存储不可用

	CodeBookNotFound         = "BOOK_001" // 图书不存在
	CodeDuplicateISBN        = "BOOK_002" // ISBN已存在
	CodeInvalidStockQuantity = "BOOK_003" // 库存数量无效
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	ErrInvalidInput       = New(CodeInvalidInput, http.StatusBadRequest, "输入参数无效")
	ErrValidationFailed   = New(CodeInvalidInput, http.StatusBadRequest, "输入参数校验失败")
	ErrMethodNotAllowed   = New(CodeMethodNotAllowed, http.StatusMethodNotAllowed, "不支持的HTTP方法")
	ErrInternal           = New(CodeInternal, http.StatusInternalServerError, "服务器内部错误")
	ErrRouteNotFound      = New(CodeRouteNotFound, http.StatusNotFound, "请求的资源不存在")
	ErrStorageUnavailable = New(CodeStorageUnavailable, http.StatusServiceUnavailable, "存储服务暂不可用")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrInternal.Message)
}

// IsInternal 判断错误是否属于服务端故障（需要记录错误日志、计入熔断统计）
func IsInternal(err error) bool {
	if err == nil {
		return false
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return true
	}
	return appErr.Status >= http.StatusInternalServerError
}
