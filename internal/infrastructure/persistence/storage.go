// Package persistence 按配置组装图书存储
//
// 存储驱动：
//   - mysql / postgres：gorm实现，事务由TxManager管理
//   - memory：进程内存实现（本地开发与测试），仓储自身即事务管理器
//
// breaker.enabled=true时仓储外层包装熔断器。
package persistence

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/resilient"
)

// Storage 图书仓储与事务边界
type Storage struct {
	Repository book.Repository
	Transactor book.Transactor
}

// Open 根据storage.driver创建存储
// 返回的cleanup负责释放连接池，程序退出前调用
func Open(cfg *config.Config) (*Storage, func(), error) {
	var (
		storage *Storage
		cleanup = func() {}
	)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		repo := memory.NewBookRepository()
		storage = &Storage{Repository: repo, Transactor: repo}

	case config.DriverMySQL, config.DriverPostgres:
		db, err := mysql.NewDB(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("初始化数据库失败: %w", err)
		}
		storage = &Storage{
			Repository: mysql.NewBookRepository(db),
			Transactor: mysql.NewTxManager(db),
		}
		cleanup = func() {
			if err := mysql.Close(db); err != nil {
				log.Error().Err(err).Msg("关闭数据库连接失败")
			}
		}

	default:
		return nil, nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Storage.Driver)
	}

	if cfg.Breaker.Enabled {
		storage.Repository = resilient.NewBookRepository(storage.Repository, cfg.Breaker)
	}

	log.Info().
		Str("driver", cfg.Storage.Driver).
		Bool("breaker", cfg.Breaker.Enabled).
		Msg("存储初始化完成")

	return storage, cleanup, nil
}
