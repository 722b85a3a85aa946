// Package book 图书应用服务
//
// 应用层负责用例编排：
//  1. 开启追踪Span、记录用例指标
//  2. 写操作放在同一事务中执行（查重/查询 + 保存）
//  3. 调用领域实体完成状态变更，由仓储持久化
//  4. 将领域实体转换为响应DTO
//
// 入参已由接口层完成格式校验，这里只处理业务规则。
package book

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// 用例名称（Span名称与指标标签）
const (
	opCreate         = "create"
	opGet            = "get"
	opGetByISBN      = "get_by_isbn"
	opList           = "list"
	opListByCategory = "list_by_category"
	opSearch         = "search"
	opAdvancedSearch = "advanced_search"
	opUpdate         = "update"
	opChangeStock    = "change_stock"
	opDelete         = "delete"
)

// Service 图书应用服务
type Service struct {
	repo book.Repository
	tx   book.Transactor
}

// NewService 创建图书应用服务
func NewService(repo book.Repository, tx book.Transactor) *Service {
	metrics.InitMetrics()
	return &Service{repo: repo, tx: tx}
}

// begin 开始一个用例：创建Span并计时
// 返回的finish需要在用例结束时以最终错误调用
func (s *Service) begin(ctx context.Context, operation string) (context.Context, func(err error)) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "book."+operation)
	start := time.Now()

	return ctx, func(err error) {
		defer span.End()

		result := metrics.ResultSuccess
		switch {
		case err == nil:
			tracing.RecordError(span, nil)
		case apperrors.IsInternal(err):
			result = metrics.ResultError
			tracing.RecordError(span, err)
		default:
			// 业务拒绝不算Span失败，只记录错误码
			result = metrics.ResultRejected
			span.SetAttributes(attribute.String("app.error_code", apperrors.GetAppError(err).Code))
		}
		metrics.RecordBookOperation(operation, result, time.Since(start).Seconds())
	}
}

// logger 带trace_id的日志
func logger(ctx context.Context) *zerolog.Logger {
	l := log.Logger
	if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
		l = l.With().Str("trace_id", traceID).Logger()
	}
	return &l
}

// findBook 按ID查询，不存在时返回带ID的NotFound
func (s *Service) findBook(ctx context.Context, id uint) (*book.Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			return nil, book.NotFoundByID(id)
		}
		return nil, err
	}
	return b, nil
}
