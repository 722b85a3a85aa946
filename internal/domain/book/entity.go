package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是唯一的聚合,库存的所有变更都通过实体方法完成
// 2. 价格使用decimal存储(避免浮点数精度问题),最多8位整数+2位小数
// 3. ISBN作为业务唯一标识(应用层查重+数据库唯一索引双重保证)
// 4. 实体本身不依赖GORM,由仓储负责与持久化模型之间的转换
type Book struct {
	ID            uint
	Title         string          // 书名
	Author        string          // 作者
	ISBN          string          // ISBN号(13位数字)
	Publisher     string          // 出版社
	Price         decimal.Decimal // 价格
	StockQuantity int             // 库存数量
	Category      Category        // 分类
	Description   string          // 图书描述
	PublishedDate *time.Time      // 出版日期(仅日期部分有效)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书(工厂方法)
// 参数说明:
// - 调用方需先完成字段校验(长度、ISBN格式、价格范围)
// - stockQuantity为nil时默认库存为0
func NewBook(title, author, isbn, publisher string, price decimal.Decimal, stockQuantity *int, category Category, description string, publishedDate *time.Time) *Book {
	stock := 0
	if stockQuantity != nil {
		stock = *stockQuantity
	}

	now := time.Now()
	return &Book{
		Title:         title,
		Author:        author,
		ISBN:          isbn,
		Publisher:     publisher,
		Price:         price,
		StockQuantity: stock,
		Category:      category,
		Description:   description,
		PublishedDate: publishedDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Update 更新图书基本信息(全量替换)
// 业务规则:
// - 所有描述字段无条件覆盖,不存在"部分更新"
// - ISBN和库存不在此方法中修改
func (b *Book) Update(title, author, publisher string, price decimal.Decimal, category Category, description string, publishedDate *time.Time) {
	b.Title = title
	b.Author = author
	b.Publisher = publisher
	b.Price = price
	b.Category = category
	b.Description = description
	b.PublishedDate = publishedDate
	b.touch()
}

// SetStock 直接设置库存(领域行为)
// 业务规则:库存不能为负数,失败时库存保持不变
func (b *Book) SetStock(quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	b.StockQuantity = quantity
	b.touch()
	return nil
}

// AddStock 增加库存(用于补货)
// 不校验入参,由调用方保证quantity>=0
func (b *Book) AddStock(quantity int) {
	b.StockQuantity += quantity
	b.touch()
}

// RemoveStock 扣减库存
// 业务规则:扣减后库存不能为负数,失败时库存保持不变
func (b *Book) RemoveStock(quantity int) error {
	rest := b.StockQuantity - quantity
	if rest < 0 {
		return ErrInsufficientStock
	}
	b.StockQuantity = rest
	b.touch()
	return nil
}

// CategoryLabel 分类的显示名称
func (b *Book) CategoryLabel() string {
	return b.Category.Label()
}

func (b *Book) touch() {
	b.UpdatedAt = time.Now()
}
