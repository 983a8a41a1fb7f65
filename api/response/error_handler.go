package response

import (
	stdErrors "errors"
	"net/http"
	"runtime"
	"strings"

	"servicedesk/domain/shared"
	"servicedesk/pkg/errors"
	"servicedesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var titles = map[errors.ErrorCode]string{
	errors.CodeBadRequest:             "Bad Request",
	errors.CodeValidation:             "Validation Failed",
	errors.CodeNotFound:               "Not Found",
	errors.CodeConflict:               "Conflict",
	errors.CodeConcurrentModification: "Concurrent Modification",
	errors.CodeForbidden:              "Forbidden",
	errors.CodeBusinessRule:           "Business Rule Rejected",
	errors.CodeTooManyRequest:         "Too Many Requests",
	errors.CodeTimeout:                "Timeout",
	errors.CodeInternal:               "Internal Server Error",
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

func GetRequestID(c *gin.Context) string {
	return getRequestID(c)
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}

// NewProblem 由应用错误构造问题描述
func NewProblem(appErr *errors.AppError, requestID string) Problem {
	title, ok := titles[appErr.Code]
	if !ok {
		title = http.StatusText(appErr.HTTPStatusCode())
	}
	return Problem{
		Type:      "/problems/" + strings.ToLower(strings.ReplaceAll(string(appErr.Code), "_", "-")),
		Title:     title,
		Status:    appErr.HTTPStatusCode(),
		Detail:    appErr.Message,
		Errors:    appErr.Fields,
		RequestID: requestID,
	}
}

// WriteProblem 写出问题描述并终止后续处理
func WriteProblem(c *gin.Context, appErr *errors.AppError) {
	problem := NewProblem(appErr, getRequestID(c))
	c.Header("Content-Type", ProblemContentType)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// HandleBindError 处理参数绑定错误；校验器错误按字段展开
func HandleBindError(c *gin.Context, err error) {
	appErr := errors.Wrap(err, errors.CodeBadRequest, "invalid request body")

	var verrs validator.ValidationErrors
	if stdErrors.As(err, &verrs) {
		appErr.Code = errors.CodeValidation
		appErr.Message = "request validation failed"
		appErr.Fields = make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			name := strings.ToLower(fe.Field())
			appErr.Fields[name] = append(appErr.Fields[name], "failed on '"+fe.Tag()+"'")
		}
	}

	logger.Warn("Invalid request",
		zap.String("request_id", getRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err))

	WriteProblem(c, appErr)
}

// HandleAppError 按错误类别映射 HTTP 状态码，只有 5xx 记录堆栈
func HandleAppError(c *gin.Context, err error) {
	appErr := errors.FromDomainError(err)
	status := appErr.HTTPStatusCode()

	fields := []zap.Field{
		zap.String("request_id", getRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", status),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	if status >= http.StatusInternalServerError {
		logger.Error(appErr.Message, append(fields, zap.Strings("stack", extractStack(err)))...)
	} else {
		logger.Warn(appErr.Message, fields...)
	}

	WriteProblem(c, appErr)
}

// HandleRejection 业务拒绝，不是错误，不记录堆栈
func HandleRejection(c *gin.Context, rejection shared.Rejection) {
	logger.Info("Request rejected by business rule",
		zap.String("request_id", getRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("reason", rejection.Message()))

	WriteProblem(c, errors.BusinessRule(rejection.Message()))
}

func extractStack(err error) []string {
	var stacker shared.Stacker
	if stdErrors.As(err, &stacker) {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	return captureStack(4)
}
