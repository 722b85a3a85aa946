package dto

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/domain/book"
)

var isbnPattern = regexp.MustCompile(`^[0-9]{13}$`)

// maxPrice 价格上限（8位整数）
var maxPrice = decimal.New(1, 8)

// CreateBookRequest 创建图书请求
// 校验规则见Validate，错误信息的key为json字段名
type CreateBookRequest struct {
	Title         string           `json:"title" example:"Clean Code"`
	Author        string           `json:"author" example:"Robert C. Martin"`
	ISBN          string           `json:"isbn" example:"9788966260959"`
	Publisher     string           `json:"publisher" example:"Prentice Hall"`
	Price         *decimal.Decimal `json:"price" swaggertype:"number" example:"33000"`
	StockQuantity *int             `json:"stockQuantity" example:"100"`
	Category      string           `json:"category" example:"TECHNOLOGY" enums:"FICTION,NON_FICTION,TECHNOLOGY,SCIENCE,HISTORY,SELF_HELP"`
	Description   string           `json:"description" example:"A Handbook of Agile Software Craftsmanship"`
	PublishedDate string           `json:"publishedDate" example:"2008-08-01"`
}

// Validate 校验创建请求
func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, titleRules()...),
		validation.Field(&r.Author, authorRules()...),
		validation.Field(&r.ISBN,
			validation.Required.Error("ISBN不能为空"),
			validation.Match(isbnPattern).Error("ISBN必须是13位数字"),
		),
		validation.Field(&r.Publisher, publisherRules()...),
		validation.Field(&r.Price, priceRules()...),
		validation.Field(&r.StockQuantity,
			validation.Min(0).Error("库存数量不能为负数"),
		),
		validation.Field(&r.Category, categoryRules()...),
		validation.Field(&r.PublishedDate, publishedDateRules()...),
	)
}

// ToCommand 转换为应用层命令（需先通过Validate）
func (r CreateBookRequest) ToCommand() (appbook.CreateBookCommand, error) {
	category, err := book.CategoryOf(r.Category)
	if err != nil {
		return appbook.CreateBookCommand{}, err
	}
	published, err := parseDate(r.PublishedDate)
	if err != nil {
		return appbook.CreateBookCommand{}, err
	}

	return appbook.CreateBookCommand{
		Title:         strings.TrimSpace(r.Title),
		Author:        strings.TrimSpace(r.Author),
		ISBN:          r.ISBN,
		Publisher:     r.Publisher,
		Price:         *r.Price,
		StockQuantity: r.StockQuantity,
		Category:      category,
		Description:   r.Description,
		PublishedDate: published,
	}, nil
}

// UpdateBookRequest 更新图书请求（全量替换，不包含ISBN和库存）
type UpdateBookRequest struct {
	Title         string           `json:"title" example:"Clean Code"`
	Author        string           `json:"author" example:"Robert C. Martin"`
	Publisher     string           `json:"publisher" example:"Prentice Hall"`
	Price         *decimal.Decimal `json:"price" swaggertype:"number" example:"29700"`
	Category      string           `json:"category" example:"TECHNOLOGY" enums:"FICTION,NON_FICTION,TECHNOLOGY,SCIENCE,HISTORY,SELF_HELP"`
	Description   string           `json:"description" example:"A Handbook of Agile Software Craftsmanship"`
	PublishedDate string           `json:"publishedDate" example:"2008-08-01"`
}

// Validate 校验更新请求
func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, titleRules()...),
		validation.Field(&r.Author, authorRules()...),
		validation.Field(&r.Publisher, publisherRules()...),
		validation.Field(&r.Price, priceRules()...),
		validation.Field(&r.Category, categoryRules()...),
		validation.Field(&r.PublishedDate, publishedDateRules()...),
	)
}

// ToCommand 转换为应用层命令（需先通过Validate）
func (r UpdateBookRequest) ToCommand() (appbook.UpdateBookCommand, error) {
	category, err := book.CategoryOf(r.Category)
	if err != nil {
		return appbook.UpdateBookCommand{}, err
	}
	published, err := parseDate(r.PublishedDate)
	if err != nil {
		return appbook.UpdateBookCommand{}, err
	}

	return appbook.UpdateBookCommand{
		Title:         strings.TrimSpace(r.Title),
		Author:        strings.TrimSpace(r.Author),
		Publisher:     r.Publisher,
		Price:         *r.Price,
		Category:      category,
		Description:   r.Description,
		PublishedDate: published,
	}, nil
}

// StockRequest 库存调整请求
type StockRequest struct {
	Quantity *int `json:"quantity" example:"50"`
}

// Validate 校验库存请求
// 数量为0合法；Required会把0当作空值，这里用NotNil
func (r StockRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity,
			validation.NotNil.Error("库存数量不能为空"),
			validation.Min(0).Error("库存数量不能为负数"),
		),
	)
}

// ValidationErrors 将校验错误转换为字段→错误信息映射
// 非字段校验错误（如规则内部错误）返回nil
func ValidationErrors(err error) map[string]string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}

	fields := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		fields[field] = fieldErr.Error()
	}
	return fields
}

// =========================================
// 共用规则
// =========================================

func titleRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("书名不能为空"),
		validation.By(notBlank("书名不能为空")),
		validation.By(trimmedLength(1, 200, "书名长度必须在1到200之间")),
	}
}

func authorRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("作者不能为空"),
		validation.By(notBlank("作者不能为空")),
		validation.By(trimmedLength(1, 100, "作者长度必须在1到100之间")),
	}
}

func publisherRules() []validation.Rule {
	return []validation.Rule{
		validation.RuneLength(0, 100).Error("出版社长度不能超过100"),
	}
}

// priceRules 价格：必填，非负，最多8位整数+2位小数
// 价格0合法，所以使用NotNil而不是Required
func priceRules() []validation.Rule {
	return []validation.Rule{
		validation.NotNil.Error("价格不能为空"),
		validation.By(func(value interface{}) error {
			p, _ := value.(*decimal.Decimal)
			if p == nil {
				return nil
			}
			if p.IsNegative() {
				return errors.New("价格不能为负数")
			}
			if !p.LessThan(maxPrice) || !p.Equal(p.Truncate(2)) {
				return errors.New("价格格式无效（最多8位整数和2位小数）")
			}
			return nil
		}),
	}
}

func categoryRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("分类不能为空"),
		validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if s == "" {
				return nil
			}
			if _, err := book.CategoryOf(s); err != nil {
				return fmt.Errorf("无效的图书分类: %s", s)
			}
			return nil
		}),
	}
}

func publishedDateRules() []validation.Rule {
	return []validation.Rule{
		validation.Date(appbook.DateLayout).Error("出版日期格式必须为YYYY-MM-DD"),
	}
}

func notBlank(message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != "" && strings.TrimSpace(s) == "" {
			return errors.New(message)
		}
		return nil
	}
}

// trimmedLength 去除首尾空白后的字符数范围（与ToCommand保存的值一致）
// 空值交给Required和notBlank处理
func trimmedLength(lo, hi int, message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if n := utf8.RuneCountInString(s); n < lo || n > hi {
			return errors.New(message)
		}
		return nil
	}
}

// parseDate 解析可选日期，空字符串返回nil
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(appbook.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("解析日期失败: %w", err)
	}
	return &t, nil
}
