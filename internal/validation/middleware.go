package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/middleware"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/resp"
)

const valuesKey = "validation.values"

// ErrNotValidated 处理器在未经过校验中间件时调用 Bind
var ErrNotValidated = errors.New("request was not validated")

// ErrorBody 校验失败时响应中的 data 字段
type ErrorBody struct {
	Errors FieldErrors `json:"errors"`
}

// Middleware 在业务处理前执行规则集
// 失败时直接返回 400 与字段错误，成功时把规范化值放入上下文供 Bind 使用
func (v *Validator) Middleware(rs RuleSet, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := middleware.RequestIDFromContext(c.Request.Context())

		in, err := inputFrom(c, rs)
		if err != nil {
			logger.Warn("invalid request body",
				zap.String("request_id", reqID),
				zap.String("rule_set", rs.Name),
				zap.Error(err),
			)
			resp.Error(c.Writer, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
			c.Abort()
			return
		}

		values, fieldErrs := v.Run(rs, in)
		if fieldErrs != nil {
			logger.Debug("validation failed",
				zap.String("request_id", reqID),
				zap.String("rule_set", rs.Name),
				zap.Any("errors", fieldErrs),
			)
			resp.ErrorWithData(c.Writer, http.StatusBadRequest, resp.CodeInvalidParam, "validation failed",
				ErrorBody{Errors: fieldErrs}, reqID, "")
			c.Abort()
			return
		}

		c.Set(valuesKey, values)
		c.Next()
	}
}

// Bind 将已校验的值写入请求结构体
func Bind(c *gin.Context, dst any) error {
	raw, ok := c.Get(valuesKey)
	if !ok {
		return ErrNotValidated
	}
	values, ok := raw.(Values)
	if !ok {
		return ErrNotValidated
	}

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal values: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("bind values: %w", err)
	}
	return nil
}

// inputFrom 收集请求体与路径参数
// 请求体为空时视为空对象，这样缺失字段会以字段错误的形式报告
func inputFrom(c *gin.Context, rs RuleSet) (Input, error) {
	in := Input{
		Body: map[string]any{},
		Path: make(map[string]string, len(c.Params)),
	}
	for _, p := range c.Params {
		in.Path[p.Key] = p.Value
	}

	if !rs.needsBody() || c.Request.Body == nil {
		return in, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return in, fmt.Errorf("read body: %w", err)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(data))
	if len(bytes.TrimSpace(data)) == 0 {
		return in, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return in, fmt.Errorf("decode body: %w", err)
	}
	if body != nil {
		in.Body = body
	}
	return in, nil
}
