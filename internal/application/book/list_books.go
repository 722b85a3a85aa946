package book

import (
	"context"
	"strings"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/pagination"
)

// AdvancedSearchQuery 组合搜索条件（均为可选）
type AdvancedSearchQuery struct {
	Title    string
	Author   string
	Category string
}

// ListBooks 分页查询全部图书
// 未指定排序时按创建时间降序
func (s *Service) ListBooks(ctx context.Context, req pagination.Request) (resp *BookListResponse, err error) {
	ctx, finish := s.begin(ctx, opList)
	defer func() { finish(err) }()

	page, err := s.repo.FindAll(ctx, withDefaultSort(req))
	if err != nil {
		return nil, err
	}
	return ToBookListResponse(page), nil
}

// ListByCategory 按分类分页查询
// 分类代码忽略大小写，无法识别时返回InvalidInput
func (s *Service) ListByCategory(ctx context.Context, category string, req pagination.Request) (resp *BookListResponse, err error) {
	ctx, finish := s.begin(ctx, opListByCategory)
	defer func() { finish(err) }()

	c, err := book.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.FindByCategory(ctx, c, withDefaultSort(req))
	if err != nil {
		return nil, err
	}
	return ToBookListResponse(page), nil
}

// SearchBooks 关键词搜索（书名或作者包含关键词，忽略大小写）
func (s *Service) SearchBooks(ctx context.Context, keyword string, req pagination.Request) (resp *BookListResponse, err error) {
	ctx, finish := s.begin(ctx, opSearch)
	defer func() { finish(err) }()

	page, err := s.repo.SearchByKeyword(ctx, keyword, withDefaultSort(req))
	if err != nil {
		return nil, err
	}
	return ToBookListResponse(page), nil
}

// AdvancedSearch 组合搜索：书名 AND 作者 AND 分类，空条件不参与过滤
func (s *Service) AdvancedSearch(ctx context.Context, q AdvancedSearchQuery, req pagination.Request) (resp *BookListResponse, err error) {
	ctx, finish := s.begin(ctx, opAdvancedSearch)
	defer func() { finish(err) }()

	criteria := book.Criteria{
		Title:  strings.TrimSpace(q.Title),
		Author: strings.TrimSpace(q.Author),
	}
	if strings.TrimSpace(q.Category) != "" {
		c, err := book.ParseCategory(q.Category)
		if err != nil {
			return nil, err
		}
		criteria.Category = &c
	}

	page, err := s.repo.Search(ctx, criteria, withDefaultSort(req))
	if err != nil {
		return nil, err
	}
	return ToBookListResponse(page), nil
}

func withDefaultSort(req pagination.Request) pagination.Request {
	if req.Sort.Field == "" {
		req.Sort = book.DefaultSort
	}
	return req
}
