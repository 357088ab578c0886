package domain

// 分页默认值
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 10000 // 偏移量上限 MaxPage*MaxPageSize，远小于 int 溢出边界
)

// Page 分页结果
type Page[T any] struct {
	Total int64
	Page  int
	Limit int
	Data  []T
}

// PageRequest 分页请求
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize 修正越界的分页参数
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Offset 计算 SQL 偏移量
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}
