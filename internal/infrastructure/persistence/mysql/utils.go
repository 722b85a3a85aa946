package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed: books.isbn
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	// TranslateError开启后GORM统一返回ErrDuplicatedKey
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// likeEscape LIKE语句的转义字符（MySQL与PostgreSQL通用）
const likeEscape = "!"

// containsPattern 构造子串匹配模式，关键词中的通配符按字面匹配
func containsPattern(keyword string) string {
	r := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return "%" + strings.ToLower(r.Replace(keyword)) + "%"
}

// sortColumns 对外排序字段 → 数据库列
var sortColumns = map[string]string{
	"id":            "id",
	"title":         "title",
	"author":        "author",
	"price":         "price",
	"stockQuantity": "stock_quantity",
	"publishedDate": "published_date",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}
