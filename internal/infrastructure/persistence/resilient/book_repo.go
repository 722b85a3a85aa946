// Package resilient 为图书仓储增加熔断保护
//
// 数据库故障时，连续失败达到阈值后熔断器打开，后续请求直接返回
// StorageUnavailable（COMMON_005，503），不再占用连接池等待超时；
// 超时后进入半开状态放行少量探测请求，成功则恢复。
//
// 只有服务端故障计入失败：NotFound、DuplicateIsbn等业务错误以及请求被取消都视为成功。
package resilient

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/pagination"
)

// BreakerName 熔断器名称（日志与指标标签）
const BreakerName = "book-storage"

// BookRepository 带熔断的图书仓储装饰器
type BookRepository struct {
	next book.Repository
	cb   *gobreaker.CircuitBreaker
}

var _ book.Repository = (*BookRepository)(nil)

// NewBookRepository 包装仓储
func NewBookRepository(next book.Repository, cfg config.BreakerConfig) *BookRepository {
	metrics.InitMetrics()

	threshold := cfg.FailureThreshold
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("存储熔断器状态变化")
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		},
		IsSuccessful: isSuccessful,
	})
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": BreakerName}, float64(cb.State()))

	return &BookRepository{next: next, cb: cb}
}

// State 当前熔断器状态
func (r *BookRepository) State() gobreaker.State {
	return r.cb.State()
}

func (r *BookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	return execute(r, func() (*book.Book, error) { return r.next.FindByID(ctx, id) })
}

func (r *BookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	return execute(r, func() (*book.Book, error) { return r.next.FindByISBN(ctx, isbn) })
}

func (r *BookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	return execute(r, func() (bool, error) { return r.next.ExistsByISBN(ctx, isbn) })
}

func (r *BookRepository) FindAll(ctx context.Context, req pagination.Request) (*pagination.Page[*book.Book], error) {
	return execute(r, func() (*pagination.Page[*book.Book], error) { return r.next.FindAll(ctx, req) })
}

func (r *BookRepository) FindByCategory(ctx context.Context, category book.Category, req pagination.Request) (*pagination.Page[*book.Book], error) {
	return execute(r, func() (*pagination.Page[*book.Book], error) {
		return r.next.FindByCategory(ctx, category, req)
	})
}

func (r *BookRepository) SearchByKeyword(ctx context.Context, keyword string, req pagination.Request) (*pagination.Page[*book.Book], error) {
	return execute(r, func() (*pagination.Page[*book.Book], error) {
		return r.next.SearchByKeyword(ctx, keyword, req)
	})
}

func (r *BookRepository) Search(ctx context.Context, criteria book.Criteria, req pagination.Request) (*pagination.Page[*book.Book], error) {
	return execute(r, func() (*pagination.Page[*book.Book], error) {
		return r.next.Search(ctx, criteria, req)
	})
}

func (r *BookRepository) Save(ctx context.Context, b *book.Book) error {
	_, err := execute(r, func() (struct{}, error) { return struct{}{}, r.next.Save(ctx, b) })
	return err
}

func (r *BookRepository) Delete(ctx context.Context, b *book.Book) error {
	_, err := execute(r, func() (struct{}, error) { return struct{}{}, r.next.Delete(ctx, b) })
	return err
}

// execute 通过熔断器执行仓储调用
// 熔断器拒绝时转换为StorageUnavailable
func execute[T any](r *BookRepository, fn func() (T, error)) (T, error) {
	var zero T

	res, err := r.cb.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, err
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		record("rejected")
		return zero, apperrors.ErrStorageUnavailable.WithCause(err)
	case err != nil && !isSuccessful(err):
		record("failure")
	default:
		record("success")
	}

	if err != nil {
		return zero, err
	}
	return res.(T), nil
}

func record(result string) {
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": BreakerName, "result": result})
}

// isSuccessful 业务错误和请求取消不计入熔断统计
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	return !apperrors.IsInternal(err)
}
