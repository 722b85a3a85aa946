package book

import "strings"

// Category 图书分类(封闭枚举)
type Category string

const (
	CategoryFiction    Category = "FICTION"
	CategoryNonFiction Category = "NON_FICTION"
	CategoryTechnology Category = "TECHNOLOGY"
	CategoryScience    Category = "SCIENCE"
	CategoryHistory    Category = "HISTORY"
	CategorySelfHelp   Category = "SELF_HELP"
)

// categoryLabels 分类显示名称,同时作为合法分类的白名单
var categoryLabels = map[Category]string{
	CategoryFiction:    "小说",
	CategoryNonFiction: "非小说",
	CategoryTechnology: "科技/IT",
	CategoryScience:    "科学",
	CategoryHistory:    "历史",
	CategorySelfHelp:   "自我提升",
}

// Categories 按固定顺序返回全部分类
func Categories() []Category {
	return []Category{
		CategoryFiction,
		CategoryNonFiction,
		CategoryTechnology,
		CategoryScience,
		CategoryHistory,
		CategorySelfHelp,
	}
}

// Label 分类的中文显示名称,未知分类返回空字符串
func (c Category) Label() string {
	return categoryLabels[c]
}

// IsValid 是否为已知分类
func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// CategoryOf 按分类代码精确匹配(请求体中的分类字段)
func CategoryOf(code string) (Category, error) {
	c := Category(code)
	if !c.IsValid() {
		return "", ErrInvalidCategory.WithMessage("无效的图书分类: %s", code)
	}
	return c, nil
}

// ParseCategory 解析分类代码(忽略大小写和首尾空白,用于路径和查询参数)
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidCategory.WithMessage("无效的图书分类: %s", s)
	}
	return c, nil
}
