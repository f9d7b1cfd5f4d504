package response

import (
	"net/http"

	"discount_campaign_api/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`             // 业务码
	Message string      `json:"message"`          // 提示信息
	Reason  string      `json:"reason,omitempty"` // 机器可读的失败原因
	Data    interface{} `json:"data"`             // 数据
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// HandleError 按错误类别映射 HTTP 状态码和业务码
// NotFound -> 404, Validation -> 400, NotEligible -> 422, Conflict -> 409, 其余 -> 500
func HandleError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		Error(c, http.StatusInternalServerError, ErrServerInternal, "internal server error")
		return
	}

	httpCode := http.StatusInternalServerError
	code := ErrServerInternal
	switch appErr.Kind {
	case apperrors.KindNotFound:
		httpCode = http.StatusNotFound
		code = ErrNotFound
	case apperrors.KindValidation:
		httpCode = http.StatusBadRequest
		code = ErrInvalidParam
	case apperrors.KindNotEligible:
		httpCode = http.StatusUnprocessableEntity
		code = ErrNotEligible
	case apperrors.KindConflict:
		httpCode = http.StatusConflict
		code = ErrConflict
	}
	if appErr.Code != 0 {
		code = appErr.Code
	}

	c.JSON(httpCode, Response{
		Code:    code,
		Message: appErr.Message,
		Reason:  appErr.Reason,
		Data:    nil,
	})
}
