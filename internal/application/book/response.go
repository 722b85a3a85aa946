package book

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/pagination"
)

// DateLayout 出版日期格式
const DateLayout = "2006-01-02"

// BookResponse 图书响应DTO
type BookResponse struct {
	ID                  uint            `json:"id"`
	Title               string          `json:"title"`
	Author              string          `json:"author"`
	ISBN                string          `json:"isbn"`
	Publisher           string          `json:"publisher"`
	Price               decimal.Decimal `json:"price" swaggertype:"number"`
	StockQuantity       int             `json:"stockQuantity"`
	Category            book.Category   `json:"category" swaggertype:"string" enums:"FICTION,NON_FICTION,TECHNOLOGY,SCIENCE,HISTORY,SELF_HELP"`
	CategoryDescription string          `json:"categoryDescription"`
	Description         string          `json:"description"`
	PublishedDate       *string         `json:"publishedDate" example:"2008-08-01"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// BookListResponse 分页响应DTO
type BookListResponse struct {
	Books         []BookResponse `json:"books"`
	PageNumber    int            `json:"pageNumber"` // 从0开始
	PageSize      int            `json:"pageSize"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	First         bool           `json:"first"`
	Last          bool           `json:"last"`
}

// ToBookResponse 领域实体 → 响应DTO
func ToBookResponse(b *book.Book) BookResponse {
	var published *string
	if b.PublishedDate != nil {
		s := b.PublishedDate.Format(DateLayout)
		published = &s
	}

	return BookResponse{
		ID:                  b.ID,
		Title:               b.Title,
		Author:              b.Author,
		ISBN:                b.ISBN,
		Publisher:           b.Publisher,
		Price:               b.Price,
		StockQuantity:       b.StockQuantity,
		Category:            b.Category,
		CategoryDescription: b.CategoryLabel(),
		Description:         b.Description,
		PublishedDate:       published,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
}

// ToBookListResponse 分页结果 → 响应DTO
func ToBookListResponse(p *pagination.Page[*book.Book]) *BookListResponse {
	mapped := pagination.Map(p, ToBookResponse)
	return &BookListResponse{
		Books:         mapped.Items,
		PageNumber:    mapped.Number,
		PageSize:      mapped.Size,
		TotalElements: mapped.TotalElements,
		TotalPages:    mapped.TotalPages,
		First:         mapped.First,
		Last:          mapped.Last,
	}
}
