// Package memory 图书仓储的内存实现
// 用于单元测试以及 storage.driver=memory 的本地运行，进程退出后数据丢失
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/pagination"
)

// BookRepository 内存图书仓储
// 1. 数据按值保存，读写都会复制，调用方修改实体不会影响存储
// 2. Transaction串行执行，fn返回error时恢复到事务开始前的快照
type BookRepository struct {
	mu     sync.RWMutex
	books  map[uint]book.Book
	nextID uint

	txMu sync.Mutex
}

var (
	_ book.Repository = (*BookRepository)(nil)
	_ book.Transactor = (*BookRepository)(nil)
)

type txKey struct{}

// NewBookRepository 创建内存仓储，可选初始数据（ID为0的会自动分配）
func NewBookRepository(seed ...*book.Book) *BookRepository {
	r := &BookRepository{
		books:  make(map[uint]book.Book, len(seed)),
		nextID: 1,
	}
	for _, b := range seed {
		if b.ID >= r.nextID {
			r.nextID = b.ID + 1
		}
	}
	for _, b := range seed {
		stored := clone(b)
		if stored.ID == 0 {
			stored.ID = r.nextID
			r.nextID++
		}
		r.books[stored.ID] = *stored
	}
	return r
}

// Transaction 串行执行fn，失败时回滚
func (r *BookRepository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// 嵌套事务直接复用外层
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	r.txMu.Lock()
	defer r.txMu.Unlock()

	snapshot, nextID := r.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		r.restore(snapshot, nextID)
		return err
	}
	return nil
}

// FindByID 根据ID查找图书
func (r *BookRepository) FindByID(_ context.Context, id uint) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return clone(&b), nil
}

// FindByISBN 根据ISBN查找图书
func (r *BookRepository) FindByISBN(_ context.Context, isbn string) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.books {
		if b.ISBN == isbn {
			return clone(&b), nil
		}
	}
	return nil, book.ErrBookNotFound
}

// ExistsByISBN ISBN是否已存在
func (r *BookRepository) ExistsByISBN(_ context.Context, isbn string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.books {
		if b.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

// FindAll 分页查询全部图书
func (r *BookRepository) FindAll(_ context.Context, req pagination.Request) (*pagination.Page[*book.Book], error) {
	return r.findPage(func(*book.Book) bool { return true }, req), nil
}

// FindByCategory 按分类分页查询
func (r *BookRepository) FindByCategory(_ context.Context, category book.Category, req pagination.Request) (*pagination.Page[*book.Book], error) {
	return r.findPage(func(b *book.Book) bool { return b.Category == category }, req), nil
}

// SearchByKeyword 书名或作者包含关键词(忽略大小写)
func (r *BookRepository) SearchByKeyword(_ context.Context, keyword string, req pagination.Request) (*pagination.Page[*book.Book], error) {
	return r.findPage(func(b *book.Book) bool {
		return containsFold(b.Title, keyword) || containsFold(b.Author, keyword)
	}, req), nil
}

// Search 组合条件搜索
func (r *BookRepository) Search(_ context.Context, criteria book.Criteria, req pagination.Request) (*pagination.Page[*book.Book], error) {
	return r.findPage(func(b *book.Book) bool {
		if criteria.Title != "" && !containsFold(b.Title, criteria.Title) {
			return false
		}
		if criteria.Author != "" && !containsFold(b.Author, criteria.Author) {
			return false
		}
		if criteria.Category != nil && b.Category != *criteria.Category {
			return false
		}
		return true
	}, req), nil
}

// Save 保存图书：ID为0时插入，否则更新
func (r *BookRepository) Save(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 唯一索引
	for id, existing := range r.books {
		if existing.ISBN == b.ISBN && id != b.ID {
			return book.DuplicateISBN(b.ISBN)
		}
	}

	now := time.Now()
	if b.ID == 0 {
		b.ID = r.nextID
		r.nextID++
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
	} else {
		existing, ok := r.books[b.ID]
		if !ok {
			return book.ErrBookNotFound
		}
		b.CreatedAt = existing.CreatedAt
	}
	b.UpdatedAt = now

	r.books[b.ID] = *clone(b)
	return nil
}

// Delete 删除图书
func (r *BookRepository) Delete(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[b.ID]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.books, b.ID)
	return nil
}

// Len 当前图书数量
func (r *BookRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}

// findPage 过滤 → 排序 → 截取当前页
func (r *BookRepository) findPage(match func(*book.Book) bool, req pagination.Request) *pagination.Page[*book.Book] {
	r.mu.RLock()
	matched := make([]*book.Book, 0, len(r.books))
	for _, b := range r.books {
		if match(&b) {
			matched = append(matched, clone(&b))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, comparator(req.Sort))

	total := int64(len(matched))
	start := min(req.Offset(), len(matched))
	end := min(start+req.Size, len(matched))

	return pagination.NewPage(matched[start:end], req, total)
}

func (r *BookRepository) snapshot() (map[uint]book.Book, uint) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make(map[uint]book.Book, len(r.books))
	for id, b := range r.books {
		books[id] = b
	}
	return books, r.nextID
}

func (r *BookRepository) restore(books map[uint]book.Book, nextID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = books
	r.nextID = nextID
}

// comparator 与SQL实现一致：按排序字段比较，相同时按id同方向比较
// 未知字段使用默认排序，publishedDate为空时排在最前
func comparator(sort pagination.Sort) func(a, b *book.Book) int {
	field, ok := fieldComparators[sort.Field]
	if !ok {
		sort = book.DefaultSort
		field = fieldComparators[sort.Field]
	}

	return func(a, b *book.Book) int {
		c := field(a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if sort.Desc {
			return -c
		}
		return c
	}
}

var fieldComparators = map[string]func(a, b *book.Book) int{
	"id":            func(a, b *book.Book) int { return cmp.Compare(a.ID, b.ID) },
	"title":         func(a, b *book.Book) int { return strings.Compare(a.Title, b.Title) },
	"author":        func(a, b *book.Book) int { return strings.Compare(a.Author, b.Author) },
	"price":         func(a, b *book.Book) int { return a.Price.Cmp(b.Price) },
	"stockQuantity": func(a, b *book.Book) int { return cmp.Compare(a.StockQuantity, b.StockQuantity) },
	"publishedDate": func(a, b *book.Book) int { return compareDate(a.PublishedDate, b.PublishedDate) },
	"createdAt":     func(a, b *book.Book) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"updatedAt":     func(a, b *book.Book) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
}

func compareDate(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// clone 深拷贝（PublishedDate是指针）
func clone(b *book.Book) *book.Book {
	c := *b
	if b.PublishedDate != nil {
		d := *b.PublishedDate
		c.PublishedDate = &d
	}
	return &c
}
