package book

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/pagination"
)

// countingRepository 统计写操作次数
type countingRepository struct {
	book.Repository
	saves atomic.Int32
}

func (r *countingRepository) Save(ctx context.Context, b *book.Book) error {
	r.saves.Add(1)
	return r.Repository.Save(ctx, b)
}

func newTestService() (*Service, *countingRepository, *memory.BookRepository) {
	mem := memory.NewBookRepository()
	repo := &countingRepository{Repository: mem}
	return NewService(repo, mem), repo, mem
}

func intPtr(v int) *int { return &v }

func cleanCode() CreateBookCommand {
	published := time.Date(2008, 8, 1, 0, 0, 0, 0, time.UTC)
	return CreateBookCommand{
		Title:         "Clean Code",
		Author:        "Robert C. Martin",
		ISBN:          "9788966260959",
		Publisher:     "Prentice Hall",
		Price:         decimal.NewFromInt(33000),
		StockQuantity: intPtr(100),
		Category:      book.CategoryTechnology,
		Description:   "A Handbook of Agile Software Craftsmanship",
		PublishedDate: &published,
	}
}

func pageReq(page, size int) pagination.Request {
	return pagination.NewRequest(page, size, pagination.Sort{})
}

// 场景A：创建图书，返回分类显示名称
func TestService_CreateBook(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.CreateBook(context.Background(), cleanCode())
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Clean Code", resp.Title)
	assert.Equal(t, 100, resp.StockQuantity)
	assert.Equal(t, book.CategoryTechnology, resp.Category)
	assert.Equal(t, "科技/IT", resp.CategoryDescription)
	require.NotNil(t, resp.PublishedDate)
	assert.Equal(t, "2008-08-01", *resp.PublishedDate)
	assert.False(t, resp.CreatedAt.IsZero())
}

func TestService_CreateBook_DefaultStock(t *testing.T) {
	svc, _, _ := newTestService()

	cmd := cleanCode()
	cmd.StockQuantity = nil
	resp, err := svc.CreateBook(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.StockQuantity)
}

// 场景B：重复ISBN返回BOOK_002，且不写入
func TestService_CreateBook_DuplicateISBN(t *testing.T) {
	svc, repo, mem := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, cleanCode())
	require.NoError(t, err)
	require.Equal(t, int32(1), repo.saves.Load())

	dup := cleanCode()
	dup.Title = "Another Title"
	_, err = svc.CreateBook(ctx, dup)

	require.ErrorIs(t, err, book.ErrDuplicateISBN)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "BOOK_002", appErr.Code)
	assert.Equal(t, 409, appErr.Status)
	assert.Contains(t, appErr.Message, "9788966260959")

	assert.Equal(t, int32(1), repo.saves.Load(), "重复ISBN不能触发写操作")
	assert.Equal(t, 1, mem.Len())
}

// 往返一致：按ID和ISBN查询结果与创建结果相同
func TestService_RoundTrip(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, cleanCode())
	require.NoError(t, err)

	byID, err := svc.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *byID)

	byISBN, err := svc.GetBookByISBN(ctx, created.ISBN)
	require.NoError(t, err)
	assert.Equal(t, *created, *byISBN)
}

// 场景D：查询不存在的ID返回BOOK_001
func TestService_GetBook_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetBook(context.Background(), 999999)
	require.ErrorIs(t, err, book.ErrBookNotFound)

	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "BOOK_001", appErr.Code)
	assert.Equal(t, 404, appErr.Status)
	assert.Contains(t, appErr.Message, "999999")

	_, err = svc.GetBookByISBN(context.Background(), "0000000000000")
	require.ErrorIs(t, err, book.ErrBookNotFound)
	assert.Contains(t, err.Error(), "0000000000000")
}

func TestService_UpdateBook(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, cleanCode())
	require.NoError(t, err)

	updated, err := svc.UpdateBook(ctx, created.ID, UpdateBookCommand{
		Title:    "Clean Code (Korean Edition)",
		Author:   "Robert C. Martin",
		Price:    decimal.RequireFromString("29700.50"),
		Category: book.CategoryScience,
	})
	require.NoError(t, err)

	assert.Equal(t, "Clean Code (Korean Edition)", updated.Title)
	assert.Equal(t, "科学", updated.CategoryDescription)
	assert.True(t, decimal.RequireFromString("29700.5").Equal(updated.Price))
	// 全量替换：未提供的字段被清空
	assert.Empty(t, updated.Publisher)
	assert.Empty(t, updated.Description)
	assert.Nil(t, updated.PublishedDate)
	// ISBN与库存不受影响
	assert.Equal(t, created.ISBN, updated.ISBN)
	assert.Equal(t, 100, updated.StockQuantity)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = svc.UpdateBook(ctx, 999999, UpdateBookCommand{Title: "x", Author: "y", Category: book.CategoryFiction})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

// 场景C：库存设为负数返回BOOK_003，库存不变
func TestService_ChangeStock(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, cleanCode())
	require.NoError(t, err)

	_, err = svc.ChangeStock(ctx, created.ID, -1)
	require.ErrorIs(t, err, book.ErrInvalidQuantity)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "BOOK_003", appErr.Code)
	assert.Equal(t, 400, appErr.Status)

	current, err := svc.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, current.StockQuantity)

	resp, err := svc.ChangeStock(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.StockQuantity)

	_, err = svc.ChangeStock(ctx, 999999, 5)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestService_DeleteBook(t *testing.T) {
	svc, _, mem := newTestService()
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, cleanCode())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, created.ID))
	assert.Equal(t, 0, mem.Len())

	_, err = svc.GetBook(ctx, created.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	err = svc.DeleteBook(ctx, created.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	// 删除后ISBN可以再次使用
	_, err = svc.CreateBook(ctx, cleanCode())
	assert.NoError(t, err)
}

// 场景E：25条记录，每页10条
func TestService_ListBooks_Paging(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		cmd := cleanCode()
		cmd.Title = fmt.Sprintf("Book %02d", i)
		cmd.ISBN = fmt.Sprintf("978000000%04d", i)
		_, err := svc.CreateBook(ctx, cmd)
		require.NoError(t, err)
	}

	first, err := svc.ListBooks(ctx, pageReq(0, 10))
	require.NoError(t, err)
	assert.Len(t, first.Books, 10)
	assert.Equal(t, int64(25), first.TotalElements)
	assert.Equal(t, 3, first.TotalPages)
	assert.True(t, first.First)
	assert.False(t, first.Last)
	// 默认按创建时间降序：最新的在前
	assert.Equal(t, "Book 24", first.Books[0].Title)

	last, err := svc.ListBooks(ctx, pageReq(2, 10))
	require.NoError(t, err)
	assert.Len(t, last.Books, 5)
	assert.Equal(t, 2, last.PageNumber)
	assert.False(t, last.First)
	assert.True(t, last.Last)
}

func TestService_ListBooks_Empty(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.ListBooks(context.Background(), pageReq(0, 10))
	require.NoError(t, err)
	assert.NotNil(t, resp.Books)
	assert.Empty(t, resp.Books)
	assert.Equal(t, 0, resp.TotalPages)
	assert.True(t, resp.First)
	assert.True(t, resp.Last)
}

func TestService_ListByCategory(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, cleanCode())
	require.NoError(t, err)

	novel := cleanCode()
	novel.Title = "三体"
	novel.Author = "刘慈欣"
	novel.ISBN = "9787536692930"
	novel.Category = book.CategoryFiction
	_, err = svc.CreateBook(ctx, novel)
	require.NoError(t, err)

	resp, err := svc.ListByCategory(ctx, "fiction", pageReq(0, 10))
	require.NoError(t, err)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "三体", resp.Books[0].Title)
	assert.Equal(t, "小说", resp.Books[0].CategoryDescription)

	_, err = svc.ListByCategory(ctx, "COOKING", pageReq(0, 10))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetAppError(err).Code)
}

func TestService_SearchBooks(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, cleanCode())
	require.NoError(t, err)

	resp, err := svc.SearchBooks(ctx, "clean", pageReq(0, 10))
	require.NoError(t, err)
	assert.Len(t, resp.Books, 1)

	resp, err = svc.SearchBooks(ctx, "MARTIN", pageReq(0, 10))
	require.NoError(t, err)
	assert.Len(t, resp.Books, 1)

	resp, err = svc.SearchBooks(ctx, "tolkien", pageReq(0, 10))
	require.NoError(t, err)
	assert.Empty(t, resp.Books)
}

func TestService_AdvancedSearch(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, cleanCode())
	require.NoError(t, err)

	coder := cleanCode()
	coder.Title = "The Clean Coder"
	coder.ISBN = "9780137081073"
	coder.Category = book.CategorySelfHelp
	_, err = svc.CreateBook(ctx, coder)
	require.NoError(t, err)

	resp, err := svc.AdvancedSearch(ctx, AdvancedSearchQuery{Title: "clean", Author: "martin"}, pageReq(0, 10))
	require.NoError(t, err)
	assert.Len(t, resp.Books, 2)

	resp, err = svc.AdvancedSearch(ctx, AdvancedSearchQuery{Title: "clean", Category: "self_help"}, pageReq(0, 10))
	require.NoError(t, err)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "The Clean Coder", resp.Books[0].Title)

	_, err = svc.AdvancedSearch(ctx, AdvancedSearchQuery{Category: "POETRY"}, pageReq(0, 10))
	assert.ErrorIs(t, err, book.ErrInvalidCategory)
}

// 任意数据集：totalPages = ceil(total/size)，逐页拼接恰好得到全部记录且无重复
func TestService_PaginationConsistencyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc, _, _ := newTestService()
		ctx := context.Background()

		n := rapid.IntRange(0, 40).Draw(t, "n")
		size := rapid.IntRange(1, 15).Draw(t, "size")
		sortField := rapid.SampledFrom(book.SortFields).Draw(t, "sortField")
		desc := rapid.Bool().Draw(t, "desc")

		for i := 0; i < n; i++ {
			cmd := cleanCode()
			cmd.Title = rapid.StringMatching(`[a-c]{1,3}`).Draw(t, "title")
			cmd.ISBN = fmt.Sprintf("978%010d", i)
			cmd.StockQuantity = intPtr(rapid.IntRange(0, 5).Draw(t, "stock"))
			if _, err := svc.CreateBook(ctx, cmd); err != nil {
				t.Fatalf("create: %v", err)
			}
		}

		sort := pagination.Sort{Field: sortField, Desc: desc}
		first, err := svc.ListBooks(ctx, pagination.NewRequest(0, size, sort))
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		wantPages := (n + size - 1) / size
		if first.TotalPages != wantPages {
			t.Fatalf("totalPages=%d, want %d", first.TotalPages, wantPages)
		}

		seen := make(map[uint]bool)
		for page := 0; page < first.TotalPages; page++ {
			resp, err := svc.ListBooks(ctx, pagination.NewRequest(page, size, sort))
			if err != nil {
				t.Fatalf("list page %d: %v", page, err)
			}
			for _, b := range resp.Books {
				if seen[b.ID] {
					t.Fatalf("duplicate id %d on page %d", b.ID, page)
				}
				seen[b.ID] = true
			}
		}
		if len(seen) != n {
			t.Fatalf("concatenated %d records, want %d", len(seen), n)
		}
	})
}

// 关键词命中当且仅当是书名或作者的子串（忽略大小写）
func TestService_SearchCorrectnessProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc, _, _ := newTestService()
		ctx := context.Background()

		n := rapid.IntRange(0, 20).Draw(t, "n")
		expected := make(map[string]bool)
		keyword := rapid.StringMatching(`[abAB_%]{1,2}`).Draw(t, "keyword")

		for i := 0; i < n; i++ {
			cmd := cleanCode()
			cmd.Title = rapid.StringMatching(`[abAB_% ]{1,6}`).Draw(t, "title")
			cmd.Author = rapid.StringMatching(`[abAB_% ]{1,6}`).Draw(t, "author")
			cmd.ISBN = fmt.Sprintf("978%010d", i)
			if _, err := svc.CreateBook(ctx, cmd); err != nil {
				t.Fatalf("create: %v", err)
			}

			kw := strings.ToLower(keyword)
			if strings.Contains(strings.ToLower(cmd.Title), kw) || strings.Contains(strings.ToLower(cmd.Author), kw) {
				expected[cmd.ISBN] = true
			}
		}

		resp, err := svc.SearchBooks(ctx, keyword, pagination.NewRequest(0, pagination.MaxSize, pagination.Sort{}))
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if int(resp.TotalElements) != len(expected) {
			t.Fatalf("matched %d, want %d", resp.TotalElements, len(expected))
		}
		for _, b := range resp.Books {
			if !expected[b.ISBN] {
				t.Fatalf("unexpected match %q/%q for keyword %q", b.Title, b.Author, keyword)
			}
		}
	})
}
