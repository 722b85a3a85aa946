package book

import (
	"net/http"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.CodeBookNotFound, http.StatusNotFound, "图书不存在")

	// ErrDuplicateISBN ISBN已存在
	ErrDuplicateISBN = apperrors.New(apperrors.CodeDuplicateISBN, http.StatusConflict, "ISBN已存在")

	// ErrInvalidQuantity 无效的库存数量
	ErrInvalidQuantity = apperrors.New(apperrors.CodeInvalidStockQuantity, http.StatusBadRequest, "库存数量不能为负数")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.CodeInvalidStockQuantity, http.StatusBadRequest, "库存不足")

	// ErrInvalidCategory 无效的分类
	ErrInvalidCategory = apperrors.New(apperrors.CodeInvalidInput, http.StatusBadRequest, "无效的图书分类")
)

// NotFoundByID 按ID查询不到图书(消息中携带ID)
func NotFoundByID(id uint) error {
	return ErrBookNotFound.WithMessage("图书不存在 (ID: %d)", id)
}

// NotFoundByISBN 按ISBN查询不到图书(消息中携带ISBN)
func NotFoundByISBN(isbn string) error {
	return ErrBookNotFound.WithMessage("ISBN为'%s'的图书不存在", isbn)
}

// DuplicateISBN ISBN重复(消息中携带ISBN)
func DuplicateISBN(isbn string) error {
	return ErrDuplicateISBN.WithMessage("ISBN已存在 (ISBN: %s)", isbn)
}
