package book

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// UpdateBookCommand 更新图书命令（全量替换，ISBN与库存不可通过此命令修改）
type UpdateBookCommand struct {
	Title         string
	Author        string
	Publisher     string
	Price         decimal.Decimal
	Category      book.Category
	Description   string
	PublishedDate *time.Time
}

// UpdateBook 更新图书信息
func (s *Service) UpdateBook(ctx context.Context, id uint, cmd UpdateBookCommand) (resp *BookResponse, err error) {
	ctx, finish := s.begin(ctx, opUpdate)
	defer func() { finish(err) }()

	var updated *book.Book
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := s.findBook(ctx, id)
		if err != nil {
			return err
		}

		b.Update(cmd.Title, cmd.Author, cmd.Publisher, cmd.Price, cmd.Category, cmd.Description, cmd.PublishedDate)
		if err := s.repo.Save(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger(ctx).Info().Uint("book_id", id).Msg("图书信息已更新")

	r := ToBookResponse(updated)
	return &r, nil
}

// ChangeStock 直接设置库存
// 数量为负时返回InvalidQuantity，库存保持不变
func (s *Service) ChangeStock(ctx context.Context, id uint, quantity int) (resp *BookResponse, err error) {
	ctx, finish := s.begin(ctx, opChangeStock)
	defer func() { finish(err) }()

	var updated *book.Book
	var before int
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := s.findBook(ctx, id)
		if err != nil {
			return err
		}

		before = b.StockQuantity
		if err := b.SetStock(quantity); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger(ctx).Info().
		Uint("book_id", id).
		Int("from", before).
		Int("to", updated.StockQuantity).
		Msg("库存已调整")

	r := ToBookResponse(updated)
	return &r, nil
}

// DeleteBook 删除图书（物理删除）
func (s *Service) DeleteBook(ctx context.Context, id uint) (err error) {
	ctx, finish := s.begin(ctx, opDelete)
	defer func() { finish(err) }()

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := s.findBook(ctx, id)
		if err != nil {
			return err
		}
		return s.repo.Delete(ctx, b)
	})
	if err != nil {
		return err
	}

	logger(ctx).Info().Uint("book_id", id).Msg("图书已删除")
	return nil
}
