// Package router 注册HTTP路由与全局中间件
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookshelf/docs" // Swagger文档
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// New 创建Gin引擎并注册全部路由
//
// 中间件顺序：RequestID → Tracing → Logger → Recovery → Metrics
// Recovery位于Logger之后，panic产生的500也会被记录
func New(cfg *config.Config, bookHandler *handler.BookHandler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.Metrics(),
	)

	// 已知路径但方法不支持 → 405；路径不存在 → 404
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, apperrors.ErrMethodNotAllowed.WithMessage("不支持的HTTP方法: %s", c.Request.Method))
	})
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrRouteNotFound)
	})

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// 生产环境不暴露Swagger
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		books := v1.Group("/books")
		{
			books.POST("", bookHandler.CreateBook)
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
			books.PATCH("/:id/stock", bookHandler.UpdateStock)
			books.GET("/isbn/:isbn", bookHandler.GetBookByISBN)
			books.GET("/category/:category", bookHandler.ListByCategory)
			books.GET("/search", bookHandler.SearchBooks)
			books.GET("/search/advanced", bookHandler.AdvancedSearch)
		}
	}

	return r
}
