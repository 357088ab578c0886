// Package validation 实现按接口声明的字段校验规则集。
//
// 规则集在业务逻辑之前执行：所有字段的所有规则都会被评估，失败信息按字段收集，
// 不会在第一个错误处短路。校验通过后，规范化后的值（去空格、邮箱小写等）取代原始输入。
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Source 字段来源
type Source int

const (
	Body Source = iota // JSON 请求体
	Path               // 路径参数
)

// Kind 字段期望的值类型
type Kind int

const (
	String Kind = iota
	Int
	Float
)

// Sanitizer 字符串规范化函数
type Sanitizer func(string) string

// Trim 去除首尾空白
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail 邮箱规范化：去空白并转为小写
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Rule 单个字段的约束
// 检查顺序：存在性 -> 类型转换 -> Before 规范化 -> Tag 校验 -> After 规范化
type Rule struct {
	Field    string
	Source   Source
	Kind     Kind
	Required bool
	Before   []Sanitizer
	Tag      string // go-playground/validator 的校验标签
	After    []Sanitizer
	Message  string
}

// RuleSet 某个接口的有序规则列表
type RuleSet struct {
	Name  string
	Rules []Rule
}

// needsBody 规则集是否需要读取请求体
func (rs RuleSet) needsBody() bool {
	for _, r := range rs.Rules {
		if r.Source == Body {
			return true
		}
	}
	return false
}

// Input 待校验的原始输入
type Input struct {
	Body map[string]any
	Path map[string]string
}

// Values 校验通过后的规范化值
type Values map[string]any

// FieldErrors 字段名 -> 错误信息
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator 规则集执行器，构建后可被并发使用
type Validator struct {
	validate *validator.Validate
}

// New 创建执行器
func New() *Validator {
	validate := validator.New()
	_ = validate.RegisterValidation("maxbytes", maxBytes)
	return &Validator{validate: validate}
}

// maxBytes 按 UTF-8 字节数限制字符串长度，validator 自带的 max 按字符计数
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Run 执行规则集
// 全部通过时返回规范化值且 FieldErrors 为 nil
func (v *Validator) Run(rs RuleSet, in Input) (Values, FieldErrors) {
	values := make(Values, len(rs.Rules))
	var errs FieldErrors

	for _, rule := range rs.Rules {
		val, ok, present := v.check(rule, in)
		if !ok {
			if errs == nil {
				errs = make(FieldErrors)
			}
			if _, exists := errs[rule.Field]; !exists {
				errs[rule.Field] = rule.Message
			}
			continue
		}
		if present {
			values[rule.Field] = val
		}
	}

	if errs != nil {
		return nil, errs
	}
	return values, nil
}

// check 校验单个字段，返回规范化值、是否通过、字段是否存在
func (v *Validator) check(rule Rule, in Input) (any, bool, bool) {
	raw, present := lookup(rule, in)
	if !present {
		return nil, !rule.Required, false
	}

	var val any
	switch rule.Kind {
	case String:
		s, ok := raw.(string)
		if !ok {
			return nil, false, true
		}
		for _, fn := range rule.Before {
			s = fn(s)
		}
		if rule.Required && s == "" {
			return nil, false, true
		}
		if !v.matches(s, rule.Tag) {
			return nil, false, true
		}
		for _, fn := range rule.After {
			s = fn(s)
		}
		val = s
	case Int:
		n, ok := toInt(raw)
		if !ok || !v.matches(n, rule.Tag) {
			return nil, false, true
		}
		val = n
	case Float:
		f, ok := toFloat(raw)
		if !ok || !v.matches(f, rule.Tag) {
			return nil, false, true
		}
		val = f
	default:
		return nil, false, true
	}
	return val, true, true
}

func (v *Validator) matches(val any, tag string) bool {
	if tag == "" {
		return true
	}
	return v.validate.Var(val, tag) == nil
}

func lookup(rule Rule, in Input) (any, bool) {
	switch rule.Source {
	case Path:
		s, ok := in.Path[rule.Field]
		return s, ok
	default:
		raw, ok := in.Body[rule.Field]
		if !ok || raw == nil {
			return nil, false
		}
		return raw, true
	}
}

// toInt 接受 JSON 数字和数字字符串，拒绝小数
func toInt(raw any) (int64, bool) {
	switch x := raw.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case float64:
		return floatToInt(x)
	case int:
		return int64(x), true
	case int64:
		return x, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// toFloat 接受 JSON 数字和数字字符串
func toFloat(raw any) (float64, bool) {
	var f float64
	switch x := raw.(type) {
	case json.Number:
		v, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = v
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		v, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = v
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
