package book

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// CreateBookCommand 创建图书命令
type CreateBookCommand struct {
	Title         string
	Author        string
	ISBN          string
	Publisher     string
	Price         decimal.Decimal
	StockQuantity *int // nil时库存为0
	Category      book.Category
	Description   string
	PublishedDate *time.Time
}

// CreateBook 创建图书
// 流程：
// 1. ISBN查重，已存在返回DuplicateIsbn（不写入任何数据）
// 2. 构建实体并保存（唯一索引兜底并发创建）
// 3. 返回包含ID与时间戳的图书
func (s *Service) CreateBook(ctx context.Context, cmd CreateBookCommand) (resp *BookResponse, err error) {
	ctx, finish := s.begin(ctx, opCreate)
	defer func() { finish(err) }()

	var created *book.Book
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByISBN(ctx, cmd.ISBN)
		if err != nil {
			return err
		}
		if exists {
			return book.DuplicateISBN(cmd.ISBN)
		}

		b := book.NewBook(
			cmd.Title,
			cmd.Author,
			cmd.ISBN,
			cmd.Publisher,
			cmd.Price,
			cmd.StockQuantity,
			cmd.Category,
			cmd.Description,
			cmd.PublishedDate,
		)
		if err := s.repo.Save(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger(ctx).Info().
		Uint("book_id", created.ID).
		Str("isbn", created.ISBN).
		Msg("图书创建成功")

	r := ToBookResponse(created)
	return &r, nil
}
