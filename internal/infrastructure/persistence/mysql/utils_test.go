package mysql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/pkg/pagination"
)

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm翻译后的错误", gorm.ErrDuplicatedKey, true},
		{"包装后的gorm错误", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"MySQL 1062", errors.New("Error 1062 (23000): Duplicate entry '9788966260959' for key 'books.idx_book_isbn'"), true},
		{"PostgreSQL 23505", errors.New(`ERROR: duplicate key value violates unique constraint "idx_book_isbn" (SQLSTATE 23505)`), true},
		{"SQLite唯一约束", errors.New("UNIQUE constraint failed: books.isbn"), true},
		{"其他错误", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateError(tt.err))
		})
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%clean code%", containsPattern("Clean Code"))
	assert.Equal(t, "%100!%%", containsPattern("100%"))
	assert.Equal(t, "%snake!_case%", containsPattern("snake_case"))
	assert.Equal(t, "%wow!!%", containsPattern("wow!"))
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		sort pagination.Sort
		want string
	}{
		{pagination.Sort{Field: "createdAt", Desc: true}, "created_at DESC, id DESC"},
		{pagination.Sort{Field: "price"}, "price ASC, id ASC"},
		{pagination.Sort{Field: "stockQuantity", Desc: true}, "stock_quantity DESC, id DESC"},
		{pagination.Sort{Field: "id"}, "id ASC"},
		{pagination.Sort{}, "created_at DESC, id DESC"},
		{pagination.Sort{Field: "password"}, "created_at DESC, id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.sort.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.sort))
		})
	}
}
