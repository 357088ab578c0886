// Package resp 定义统一的 JSON 响应结构与业务码。
package resp

import (
	"encoding/json"
	"net/http"
)

// 业务码
const (
	CodeOK              = 0
	CodeInvalidParam    = 40000
	CodeUnauthorized    = 40100
	CodeForbidden       = 40300
	CodeNotFound        = 40400
	CodeConflict        = 40900
	CodeTooManyRequests = 42900
	CodeInternalError   = 50000
	CodeTimeout         = 50400
)

// Response 统一响应体
type Response[T any] struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      T      `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// HTTPStatusFromCode 将业务码映射为 HTTP 状态码
func HTTPStatusFromCode(code int) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON 写出响应
func WriteJSON[T any](w http.ResponseWriter, status, code int, message string, data T, requestID, traceID string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response[T]{
		Code:      code,
		Message:   message,
		Data:      data,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// OK 写出 200 成功响应
func OK[T any](w http.ResponseWriter, data T, requestID, traceID string) {
	WriteJSON(w, http.StatusOK, CodeOK, "success", data, requestID, traceID)
}

// Created 写出 201 成功响应
func Created[T any](w http.ResponseWriter, data T, requestID, traceID string) {
	WriteJSON(w, http.StatusCreated, CodeOK, "success", data, requestID, traceID)
}

// Error 写出错误响应
func Error(w http.ResponseWriter, status, code int, message, requestID, traceID string) {
	WriteJSON[any](w, status, code, message, nil, requestID, traceID)
}

// ErrorWithData 写出携带详情的错误响应，例如字段级校验错误
func ErrorWithData[T any](w http.ResponseWriter, status, code int, message string, data T, requestID, traceID string) {
	WriteJSON(w, status, code, message, data, requestID, traceID)
}
