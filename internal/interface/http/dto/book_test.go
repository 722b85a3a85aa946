package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

func validCreateRequest() CreateBookRequest {
	price := decimal.NewFromInt(33000)
	stock := 100
	return CreateBookRequest{
		Title:         "Clean Code",
		Author:        "Robert C. Martin",
		ISBN:          "9788966260959",
		Price:         &price,
		StockQuantity: &stock,
		Category:      "TECHNOLOGY",
		PublishedDate: "2008-08-01",
	}
}

func TestCreateBookRequest_Validate(t *testing.T) {
	require.NoError(t, validCreateRequest().Validate())

	tests := []struct {
		name   string
		modify func(r *CreateBookRequest)
		field  string
	}{
		{"书名为空", func(r *CreateBookRequest) { r.Title = "" }, "title"},
		{"书名为空白", func(r *CreateBookRequest) { r.Title = "   " }, "title"},
		{"书名过长", func(r *CreateBookRequest) { r.Title = strings.Repeat("书", 201) }, "title"},
		{"作者为空", func(r *CreateBookRequest) { r.Author = "" }, "author"},
		{"作者过长", func(r *CreateBookRequest) { r.Author = strings.Repeat("a", 101) }, "author"},
		{"ISBN为空", func(r *CreateBookRequest) { r.ISBN = "" }, "isbn"},
		{"ISBN位数不对", func(r *CreateBookRequest) { r.ISBN = "978896626095" }, "isbn"},
		{"ISBN含字母", func(r *CreateBookRequest) { r.ISBN = "978896626095X" }, "isbn"},
		{"出版社过长", func(r *CreateBookRequest) { r.Publisher = strings.Repeat("p", 101) }, "publisher"},
		{"价格缺失", func(r *CreateBookRequest) { r.Price = nil }, "price"},
		{"价格为负", func(r *CreateBookRequest) { p := decimal.NewFromInt(-1); r.Price = &p }, "price"},
		{"价格小数位过多", func(r *CreateBookRequest) { p := decimal.RequireFromString("1.234"); r.Price = &p }, "price"},
		{"价格整数位过多", func(r *CreateBookRequest) { p := decimal.NewFromInt(100000000); r.Price = &p }, "price"},
		{"库存为负", func(r *CreateBookRequest) { s := -1; r.StockQuantity = &s }, "stockQuantity"},
		{"分类为空", func(r *CreateBookRequest) { r.Category = "" }, "category"},
		{"分类未知", func(r *CreateBookRequest) { r.Category = "COOKING" }, "category"},
		{"分类小写", func(r *CreateBookRequest) { r.Category = "technology" }, "category"},
		{"分类带空白", func(r *CreateBookRequest) { r.Category = " SELF_HELP " }, "category"},
		{"去除空白后书名仍过长", func(r *CreateBookRequest) { r.Title = "  " + strings.Repeat("书", 201) + "  " }, "title"},
		{"日期格式错误", func(r *CreateBookRequest) { r.PublishedDate = "2008/08/01" }, "publishedDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validCreateRequest()
			tt.modify(&r)

			fields := ValidationErrors(r.Validate())
			require.NotNil(t, fields)
			assert.Contains(t, fields, tt.field)
			assert.Len(t, fields, 1)
		})
	}
}

func TestCreateBookRequest_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *CreateBookRequest)
	}{
		{"价格为0", func(r *CreateBookRequest) { p := decimal.Zero; r.Price = &p }},
		{"价格上限", func(r *CreateBookRequest) { p := decimal.RequireFromString("99999999.99"); r.Price = &p }},
		{"库存为0", func(r *CreateBookRequest) { s := 0; r.StockQuantity = &s }},
		{"库存缺省", func(r *CreateBookRequest) { r.StockQuantity = nil }},
		{"书名200个中文字符", func(r *CreateBookRequest) { r.Title = strings.Repeat("书", 200) }},
		{"书名带首尾空白且去除后为200字符", func(r *CreateBookRequest) { r.Title = "  " + strings.Repeat("书", 200) + "  " }},
		{"作者带首尾空白且去除后为100字符", func(r *CreateBookRequest) { r.Author = " " + strings.Repeat("a", 100) + " " }},
		{"无出版日期", func(r *CreateBookRequest) { r.PublishedDate = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validCreateRequest()
			tt.modify(&r)
			assert.NoError(t, r.Validate())
		})
	}
}

func TestCreateBookRequest_MultipleErrors(t *testing.T) {
	fields := ValidationErrors(CreateBookRequest{}.Validate())

	for _, f := range []string{"title", "author", "isbn", "price", "category"} {
		assert.Contains(t, fields, f)
	}
	assert.NotContains(t, fields, "stockQuantity")
	assert.Equal(t, "ISBN不能为空", fields["isbn"])
}

func TestCreateBookRequest_JSONPrice(t *testing.T) {
	var r CreateBookRequest
	require.NoError(t, json.Unmarshal([]byte(`{"price": 33000.5}`), &r))
	require.NotNil(t, r.Price)
	assert.True(t, decimal.RequireFromString("33000.5").Equal(*r.Price))

	require.NoError(t, json.Unmarshal([]byte(`{"price": "12.30"}`), &r))
	assert.True(t, decimal.RequireFromString("12.3").Equal(*r.Price))
}

func TestCreateBookRequest_ToCommand(t *testing.T) {
	r := validCreateRequest()
	r.Title = "  Clean Code  "
	r.Category = "TECHNOLOGY"

	cmd, err := r.ToCommand()
	require.NoError(t, err)

	assert.Equal(t, "Clean Code", cmd.Title)
	assert.Equal(t, book.CategoryTechnology, cmd.Category)
	require.NotNil(t, cmd.PublishedDate)
	assert.Equal(t, "2008-08-01", cmd.PublishedDate.Format("2006-01-02"))
	require.NotNil(t, cmd.StockQuantity)
	assert.Equal(t, 100, *cmd.StockQuantity)
}

func TestUpdateBookRequest_Validate(t *testing.T) {
	price := decimal.NewFromInt(100)
	r := UpdateBookRequest{Title: "t", Author: "a", Price: &price, Category: "HISTORY"}
	require.NoError(t, r.Validate())

	cmd, err := r.ToCommand()
	require.NoError(t, err)
	assert.Nil(t, cmd.PublishedDate)
	assert.Equal(t, book.CategoryHistory, cmd.Category)

	fields := ValidationErrors(UpdateBookRequest{Title: "t", Author: "a", Category: "HISTORY"}.Validate())
	assert.Equal(t, map[string]string{"price": "价格不能为空"}, fields)
}

func TestStockRequest_Validate(t *testing.T) {
	zero, positive, negative := 0, 50, -1

	assert.NoError(t, StockRequest{Quantity: &zero}.Validate())
	assert.NoError(t, StockRequest{Quantity: &positive}.Validate())

	fields := ValidationErrors(StockRequest{Quantity: &negative}.Validate())
	assert.Equal(t, "库存数量不能为负数", fields["quantity"])

	fields = ValidationErrors(StockRequest{}.Validate())
	assert.Equal(t, "库存数量不能为空", fields["quantity"])
}

func TestValidationErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, ValidationErrors(nil))
	assert.Nil(t, ValidationErrors(assert.AnError))
}
