package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Success表示请求是否成功，成功与失败使用同一个信封
// 2. Message是用户友好的提示信息（可选）
// 3. Data是业务数据，成功时返回；校验失败时为字段→错误信息映射
// 4. ErrorCode是稳定的机器可读错误码，仅失败时返回
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	ErrorCode string      `json:"errorCode,omitempty"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage 带提示信息的成功响应
func SuccessWithMessage(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 资源创建成功（201）
func Created(c *gin.Context, message string, data interface{}) {
	SuccessWithMessage(c, http.StatusCreated, message, data)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := bookService.GetBook(ctx, id)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 服务端错误记录完整原因，客户端只看到通用提示
	if apperrors.IsInternal(appErr) {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	} else {
		log.Warn().
			Str("request_id", c.GetString("request_id")).
			Str("error_code", appErr.Code).
			Msg(appErr.Message)
	}

	c.JSON(appErr.Status, Response{
		Success:   false,
		Message:   appErr.Message,
		ErrorCode: appErr.Code,
	})
}

// ValidationError 字段校验失败响应（400）
// data为字段名→错误信息的映射
func ValidationError(c *gin.Context, fields map[string]string) {
	log.Warn().
		Str("request_id", c.GetString("request_id")).
		Interface("fields", fields).
		Msg("validation failed")

	c.JSON(http.StatusBadRequest, Response{
		Success:   false,
		Message:   apperrors.ErrValidationFailed.Message,
		Data:      fields,
		ErrorCode: apperrors.ErrValidationFailed.Code,
	})
}

// Abort 错误响应并终止后续中间件
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
