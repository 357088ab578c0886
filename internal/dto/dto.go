// Package dto 将领域记录投影为可安全返回给客户端的视图。
// 所有映射函数都是纯函数：空输入返回 nil/空切片，不会出错。
package dto

import "github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"

// PageView 分页视图
type PageView[V any] struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Data  []V   `json:"data"`
}

// mapAll 依次映射每个元素，跳过映射结果为 nil 的元素，总是返回非 nil 切片
func mapAll[R any, V any](records []R, fn func(R) *V) []V {
	out := make([]V, 0, len(records))
	for _, r := range records {
		if v := fn(r); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// mapPage 透传分页元数据，只映射数据部分
func mapPage[R any, V any](page domain.Page[R], fn func(R) *V) PageView[V] {
	return PageView[V]{
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
		Data:  mapAll(page.Data, fn),
	}
}
