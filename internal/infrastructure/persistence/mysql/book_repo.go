package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/pagination"
)

// bookRepository 图书仓储实现(GORM)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如ISBN重复),转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := r.getDB(ctx).Where("isbn = ?", isbn).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// ExistsByISBN ISBN是否已存在
func (r *bookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&BookModel{}).Where("isbn = ?", isbn).Limit(1).Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询ISBN失败")
	}
	return count > 0, nil
}

// FindAll 分页查询全部图书
func (r *bookRepository) FindAll(ctx context.Context, req pagination.Request) (*pagination.Page[*book.Book], error) {
	return r.findPage(r.getDB(ctx).Model(&BookModel{}), req)
}

// FindByCategory 按分类分页查询
func (r *bookRepository) FindByCategory(ctx context.Context, category book.Category, req pagination.Request) (*pagination.Page[*book.Book], error) {
	query := r.getDB(ctx).Model(&BookModel{}).Where("category = ?", string(category))
	return r.findPage(query, req)
}

// SearchByKeyword 书名或作者包含关键词(忽略大小写)
func (r *bookRepository) SearchByKeyword(ctx context.Context, keyword string, req pagination.Request) (*pagination.Page[*book.Book], error) {
	pattern := containsPattern(keyword)
	query := r.getDB(ctx).Model(&BookModel{}).
		Where("LOWER(title) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(author) LIKE ? ESCAPE '"+likeEscape+"'", pattern, pattern)
	return r.findPage(query, req)
}

// Search 组合条件搜索
func (r *bookRepository) Search(ctx context.Context, criteria book.Criteria, req pagination.Request) (*pagination.Page[*book.Book], error) {
	query := r.getDB(ctx).Model(&BookModel{})

	if criteria.Title != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(criteria.Title))
	}
	if criteria.Author != "" {
		query = query.Where("LOWER(author) LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(criteria.Author))
	}
	if criteria.Category != nil {
		query = query.Where("category = ?", string(*criteria.Category))
	}

	return r.findPage(query, req)
}

// Save 保存图书
// ID为0时INSERT并回填ID,否则全字段UPDATE
func (r *bookRepository) Save(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	db := r.getDB(ctx)

	var err error
	if model.ID == 0 {
		err = db.Create(model).Error
	} else {
		err = db.Save(model).Error
	}
	if err != nil {
		// 并发创建时,应用层查重可能都通过,由唯一索引兜底
		if isDuplicateError(err) {
			return book.DuplicateISBN(b.ISBN)
		}
		return apperrors.Wrap(err, "保存图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书(物理删除)
func (r *bookRepository) Delete(ctx context.Context, b *book.Book) error {
	result := r.getDB(ctx).Delete(&BookModel{}, b.ID)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// findPage 统计总数 → 排序 → 分页 → 转换
func (r *bookRepository) findPage(query *gorm.DB, req pagination.Request) (*pagination.Page[*book.Book], error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书总数失败")
	}

	var models []BookModel
	err := query.
		Order(orderClause(req.Sort)).
		Limit(req.Size).
		Offset(req.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return pagination.NewPage(books, req, total), nil
}

// orderClause 排序子句,同值时按id同方向排序保证分页稳定
func orderClause(sort pagination.Sort) string {
	column, ok := sortColumns[sort.Field]
	if !ok {
		sort = book.DefaultSort
		column = sortColumns[sort.Field]
	}

	dir := " ASC"
	if sort.Desc {
		dir = " DESC"
	}
	if column == "id" {
		return column + dir
	}
	return column + dir + ", id" + dir
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		ISBN:          model.ISBN,
		Publisher:     model.Publisher,
		Price:         model.Price,
		StockQuantity: model.StockQuantity,
		Category:      book.Category(model.Category),
		Description:   model.Description,
		PublishedDate: model.PublishedDate,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		Publisher:     b.Publisher,
		Price:         b.Price,
		StockQuantity: b.StockQuantity,
		Category:      string(b.Category),
		Description:   b.Description,
		PublishedDate: b.PublishedDate,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// getDB 从context获取事务DB,没有则使用默认DB
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}
