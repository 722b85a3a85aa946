package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/pagination"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// BookHandler 图书HTTP处理器
// 职责：参数解析与校验 → 调用应用服务 → 统一响应
type BookHandler struct {
	service *appbook.Service
}

// NewBookHandler 创建图书处理器
func NewBookHandler(service *appbook.Service) *BookHandler {
	return &BookHandler{service: service}
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  ISBN必须唯一，库存缺省为0
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response{data=map[string]string} "参数错误"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定与校验
	var req dto.CreateBookRequest
	if !bindAndValidate(c, &req) {
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		response.Error(c, apperrors.ErrInvalidInput.WithCause(err))
		return
	}

	// 2. 调用应用服务
	result, err := h.service.CreateBook(c.Request.Context(), cmd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "图书创建成功", result)
}

// GetBook 按ID查询图书
// @Summary      查询图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response "ID格式错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBookByISBN 按ISBN查询图书
// @Summary      按ISBN查询图书
// @Tags         图书
// @Produce      json
// @Param        isbn path string true "ISBN（13位数字）"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/isbn/{isbn} [get]
func (h *BookHandler) GetBookByISBN(c *gin.Context) {
	result, err := h.service.GetBookByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBooks 分页查询图书
// @Summary      图书列表
// @Description  page从0开始，size默认10（最大100），sort格式为field,asc|desc，默认createdAt,desc
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码（从0开始）" default(0)
// @Param        size query int false "每页数量" default(10)
// @Param        sort query string false "排序" default(createdAt,desc)
// @Success      200 {object} response.Response{data=appbook.BookListResponse}
// @Failure      400 {object} response.Response "分页参数错误"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	req, ok := parsePageRequest(c)
	if !ok {
		return
	}

	result, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListByCategory 按分类分页查询
// @Summary      按分类查询
// @Tags         图书
// @Produce      json
// @Param        category path string true "分类" Enums(FICTION,NON_FICTION,TECHNOLOGY,SCIENCE,HISTORY,SELF_HELP)
// @Param        page query int false "页码（从0开始）"
// @Param        size query int false "每页数量"
// @Param        sort query string false "排序"
// @Success      200 {object} response.Response{data=appbook.BookListResponse}
// @Failure      400 {object} response.Response "分类无效"
// @Router       /api/v1/books/category/{category} [get]
func (h *BookHandler) ListByCategory(c *gin.Context) {
	req, ok := parsePageRequest(c)
	if !ok {
		return
	}

	result, err := h.service.ListByCategory(c.Request.Context(), c.Param("category"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SearchBooks 关键词搜索
// @Summary      关键词搜索
// @Description  书名或作者包含关键词（忽略大小写）
// @Tags         图书
// @Produce      json
// @Param        keyword query string true "关键词"
// @Param        page query int false "页码（从0开始）"
// @Param        size query int false "每页数量"
// @Param        sort query string false "排序"
// @Success      200 {object} response.Response{data=appbook.BookListResponse}
// @Failure      400 {object} response.Response{data=map[string]string} "缺少关键词"
// @Router       /api/v1/books/search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		response.ValidationError(c, map[string]string{"keyword": "搜索关键词不能为空"})
		return
	}

	req, ok := parsePageRequest(c)
	if !ok {
		return
	}

	result, err := h.service.SearchBooks(c.Request.Context(), keyword, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AdvancedSearch 组合搜索
// @Summary      组合搜索
// @Description  书名、作者、分类均为可选条件，同时提供时取交集
// @Tags         图书
// @Produce      json
// @Param        title query string false "书名包含"
// @Param        author query string false "作者包含"
// @Param        category query string false "分类"
// @Param        page query int false "页码（从0开始）"
// @Param        size query int false "每页数量"
// @Param        sort query string false "排序"
// @Success      200 {object} response.Response{data=appbook.BookListResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books/search/advanced [get]
func (h *BookHandler) AdvancedSearch(c *gin.Context) {
	req, ok := parsePageRequest(c)
	if !ok {
		return
	}

	result, err := h.service.AdvancedSearch(c.Request.Context(), appbook.AdvancedSearchQuery{
		Title:    c.Query("title"),
		Author:   c.Query("author"),
		Category: c.Query("category"),
	}, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBook 更新图书信息（全量替换）
// @Summary      更新图书
// @Description  全量替换书名、作者、出版社、价格、分类、描述、出版日期；ISBN与库存不可修改
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if !bindAndValidate(c, &req) {
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		response.Error(c, apperrors.ErrInvalidInput.WithCause(err))
		return
	}

	result, err := h.service.UpdateBook(c.Request.Context(), id, cmd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "图书信息更新成功", result)
}

// UpdateStock 设置库存
// @Summary      设置库存
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.StockRequest true "库存数量"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      400 {object} response.Response "库存数量无效"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/stock [patch]
func (h *BookHandler) UpdateStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.StockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.service.ChangeStock(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "库存更新成功", result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "图书删除成功", nil)
}

// =========================================
// 参数解析
// =========================================

// validatable 带显式校验的请求体
type validatable interface {
	Validate() error
}

// bindAndValidate 绑定JSON并校验
// JSON格式错误或类型不匹配返回COMMON_001，字段校验失败返回字段错误映射
func bindAndValidate(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperrors.ErrInvalidInput.WithMessage("请求体格式错误").WithCause(err))
		return false
	}

	if err := req.Validate(); err != nil {
		if fields := dto.ValidationErrors(err); fields != nil {
			response.ValidationError(c, fields)
			return false
		}
		response.Error(c, apperrors.Wrap(err, "参数校验异常"))
		return false
	}
	return true
}

// parseID 解析路径中的图书ID
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		response.Error(c, apperrors.ErrInvalidInput.WithMessage("无效的图书ID: %s", c.Param("id")))
		return 0, false
	}
	return uint(id), true
}

// parsePageRequest 解析page、size、sort
// page<0按0处理，size超出范围时截断；非数字或sort格式错误返回400
func parsePageRequest(c *gin.Context) (pagination.Request, bool) {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		response.Error(c, err)
		return pagination.Request{}, false
	}
	size, err := queryInt(c, "size", pagination.DefaultSize)
	if err != nil {
		response.Error(c, err)
		return pagination.Request{}, false
	}

	sort := book.DefaultSort
	if raw := c.Query("sort"); raw != "" {
		sort, err = pagination.ParseSort(raw, book.SortFields...)
		if err != nil {
			response.Error(c, apperrors.ErrInvalidInput.WithMessage("%s", err.Error()))
			return pagination.Request{}, false
		}
	}

	return pagination.NewRequest(page, size, sort), true
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ErrInvalidInput.WithMessage("参数%s必须是整数", key).WithCause(err)
	}
	return v, nil
}

