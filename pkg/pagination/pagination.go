// Package pagination 分页请求与分页结果
//
// 约定：
//   - 页码从0开始（与对外接口的page参数一致）
//   - TotalPages = ceil(TotalElements / Size)
//   - 没有任何数据时 TotalPages=0，First和Last同时为true
package pagination

import (
	"fmt"
	"math"
	"strings"
)

const (
	// DefaultSize 默认每页数量
	DefaultSize = 10
	// MaxSize 每页数量上限（防止大查询）
	MaxSize = 100
	// MaxPage 页码上限，保证Offset和Page+1不会溢出
	MaxPage = math.MaxInt/MaxSize - 1
)

// Sort 排序条件
type Sort struct {
	Field string // 排序字段（对外字段名，如createdAt）
	Desc  bool   // 是否降序
}

// String 输出 field,asc|desc 形式
func (s Sort) String() string {
	dir := "asc"
	if s.Desc {
		dir = "desc"
	}
	return s.Field + "," + dir
}

// ParseSort 解析排序参数
// 格式：field 或 field,asc 或 field,desc（方向缺省为asc）
// allowed为允许排序的字段，为空表示不限制
func ParseSort(raw string, allowed ...string) (Sort, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	field := strings.TrimSpace(parts[0])
	if field == "" {
		return Sort{}, fmt.Errorf("排序字段不能为空")
	}

	if len(allowed) > 0 && !contains(allowed, field) {
		return Sort{}, fmt.Errorf("不支持的排序字段: %s", field)
	}

	sort := Sort{Field: field}
	if len(parts) > 1 {
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case "asc", "":
		case "desc":
			sort.Desc = true
		default:
			return Sort{}, fmt.Errorf("不支持的排序方向: %s", parts[1])
		}
	}
	if len(parts) > 2 {
		return Sort{}, fmt.Errorf("排序参数格式错误: %s", raw)
	}

	return sort, nil
}

// Request 分页请求
type Request struct {
	Page int  // 页码（从0开始）
	Size int  // 每页数量
	Sort Sort // 排序条件
}

// NewRequest 创建分页请求，并对参数做默认值与范围处理
// - page<0 视为0，page>MaxPage 截断为MaxPage
// - size<=0 使用默认值，size>MaxSize 截断为MaxSize
func NewRequest(page, size int, sort Sort) Request {
	if page < 0 {
		page = 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Request{Page: page, Size: size, Sort: sort}
}

// Offset 计算偏移量
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Page 分页结果
type Page[T any] struct {
	Items         []T
	Number        int   // 当前页码（从0开始）
	Size          int   // 每页数量
	TotalElements int64 // 总记录数
	TotalPages    int   // 总页数
	First         bool  // 是否第一页
	Last          bool  // 是否最后一页
}

// NewPage 根据当前页数据和总数构造分页结果
func NewPage[T any](items []T, req Request, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return &Page[T]{
		Items:         items,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page+1 >= totalPages,
	}
}

// Map 转换分页中的元素类型，分页元数据保持不变
func Map[T, R any](p *Page[T], fn func(T) R) *Page[R] {
	items := make([]R, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return &Page[R]{
		Items:         items,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
