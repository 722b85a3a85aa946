package book

import (
	"context"

	"github.com/xiebiao/bookshelf/pkg/pagination"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(MySQL/PostgreSQL、内存)
// 2. 便于单元测试,不依赖具体数据库实现
// 3. 所有方法都可能返回存储故障(Internal或StorageUnavailable)
type Repository interface {
	// FindByID 根据ID查找图书,不存在时返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书,不存在时返回ErrBookNotFound
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// ExistsByISBN ISBN是否已存在(用于创建前查重)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)

	// FindAll 分页查询全部图书
	FindAll(ctx context.Context, req pagination.Request) (*pagination.Page[*Book], error)

	// FindByCategory 按分类分页查询
	FindByCategory(ctx context.Context, category Category, req pagination.Request) (*pagination.Page[*Book], error)

	// SearchByKeyword 关键词搜索
	// 关键词(忽略大小写)是书名或作者的子串即匹配
	SearchByKeyword(ctx context.Context, keyword string, req pagination.Request) (*pagination.Page[*Book], error)

	// Search 组合条件搜索,未设置的条件不参与过滤
	Search(ctx context.Context, criteria Criteria, req pagination.Request) (*pagination.Page[*Book], error)

	// Save 保存图书:ID为0时插入,否则更新
	// 插入后回填ID与时间戳;ISBN冲突时返回ErrDuplicateISBN
	Save(ctx context.Context, book *Book) error

	// Delete 删除图书(物理删除)
	Delete(ctx context.Context, book *Book) error
}

// Criteria 组合搜索条件
// Title/Author为忽略大小写的子串匹配,三者之间为AND关系
type Criteria struct {
	Title    string
	Author   string
	Category *Category
}

// Transactor 事务边界
// fn内通过ctx执行的所有仓储操作属于同一事务:fn返回error则回滚,否则提交
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SortFields 允许排序的字段(对外字段名)
var SortFields = []string{
	"id",
	"title",
	"author",
	"price",
	"stockQuantity",
	"publishedDate",
	"createdAt",
	"updatedAt",
}

// DefaultSort 默认排序:按创建时间降序
var DefaultSort = pagination.Sort{Field: "createdAt", Desc: true}
