// Bookshelf API
//
// @title        Bookshelf API
// @version      1.0
// @description  图书库存管理服务：图书的增删改查、分页、分类筛选、关键词搜索与库存管理
// @host         localhost:8080
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/pkg/logger"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}

	// 2. 初始化日志
	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info().
		Int("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Msg("配置加载成功")

	// 价格以JSON数字输出（默认是字符串）
	decimal.MarshalJSONWithoutQuotes = true

	// 3. 链路追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("初始化链路追踪失败")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("关闭链路追踪失败")
			}
		}()
		log.Info().Str("endpoint", cfg.Tracing.Endpoint).Msg("链路追踪已启用")
	}

	// 4. 依赖注入（Wire生成）
	engine, cleanup, err := InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("初始化应用失败")
	}
	defer cleanup()

	// 5. 启动服务
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("服务启动成功")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("启动服务失败")
		}
	}()

	// 6. 优雅退出：等待进行中的请求处理完毕
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("服务关闭超时，强制退出")
		return
	}
	log.Info().Msg("服务已关闭")
}
