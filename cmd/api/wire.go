//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/router"
)

// storageSet 存储层：按storage.driver选择实现，拆出仓储与事务管理器
var storageSet = wire.NewSet(
	persistence.Open,
	wire.FieldsOf(new(*persistence.Storage), "Repository", "Transactor"),
)

// applicationSet 应用层
var applicationSet = wire.NewSet(
	appbook.NewService,
)

// handlerSet 接口层
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	router.New,
)

// InitializeApp 组装整个应用
// 返回Gin引擎和释放存储连接的cleanup函数
func InitializeApp(cfg *config.Config) (*gin.Engine, func(), error) {
	wire.Build(
		storageSet,
		applicationSet,
		handlerSet,
	)
	return nil, nil, nil
}
