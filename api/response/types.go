/*
Package response - API 层统一响应处理

设计原则:
1. HTTP 状态码映射放在 API 层，不污染领域层和应用层
2. 失败响应统一为问题描述 {type, title, status, detail, errors}
3. 所有响应携带 RequestID 用于日志追踪
4. 内部错误统一返回 "internal server error"，真实错误只记录日志

堆栈提取策略:
1. 优先从领域错误（实现 shared.Stacker 接口）提取"错误发生点"堆栈
2. 如果错误不带堆栈，则在此处捕获"错误处理点"堆栈作为兜底
*/
package response

// RequestIDKey 是 gin context 中保存请求 ID 的键。
const RequestIDKey = "request_id"

// Response 是成功响应结构。
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// Problem 失败响应；Errors 只在校验失败时出现
type Problem struct {
	Type      string              `json:"type"`
	Title     string              `json:"title"`
	Status    int                 `json:"status"`
	Detail    string              `json:"detail,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// ProblemContentType 问题描述的媒体类型
const ProblemContentType = "application/problem+json"
