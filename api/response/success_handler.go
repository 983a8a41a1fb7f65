package response

import (
	"net/http"

	"servicedesk/domain/shared"

	"github.com/gin-gonic/gin"
)

func HandleSuccess(c *gin.Context, data interface{}, message string) {
	write(c, http.StatusOK, data, message)
}

func HandleCreated(c *gin.Context, data interface{}, message string) {
	write(c, http.StatusCreated, data, message)
}

// HandleResult 成功分支按给定状态码写出，失败分支写出 422
func HandleResult[T any](c *gin.Context, result shared.Result[T], status int, message string) {
	if result.IsFailure() {
		HandleRejection(c, result)
		return
	}
	write(c, status, result.Value(), message)
}

func write(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      status,
		RequestID: getRequestID(c),
	})
}
