package book

import (
	"context"
	"errors"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// GetBook 按ID查询图书
func (s *Service) GetBook(ctx context.Context, id uint) (resp *BookResponse, err error) {
	ctx, finish := s.begin(ctx, opGet)
	defer func() { finish(err) }()

	b, err := s.findBook(ctx, id)
	if err != nil {
		return nil, err
	}

	r := ToBookResponse(b)
	return &r, nil
}

// GetBookByISBN 按ISBN查询图书
func (s *Service) GetBookByISBN(ctx context.Context, isbn string) (resp *BookResponse, err error) {
	ctx, finish := s.begin(ctx, opGetByISBN)
	defer func() { finish(err) }()

	b, err := s.repo.FindByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			return nil, book.NotFoundByISBN(isbn)
		}
		return nil, err
	}

	r := ToBookResponse(b)
	return &r, nil
}
