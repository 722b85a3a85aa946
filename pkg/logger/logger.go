// Package logger 基于zerolog的全局日志初始化
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config 日志配置
type Config struct {
	Level  string // debug | info | warn | error
	Format string // console | json
}

// Init 初始化全局logger
// console格式用于本地开发，json格式用于生产环境（便于日志采集）
func Init(cfg Config) {
	InitWithWriter(cfg, os.Stderr)
}

// InitWithWriter 输出到指定writer（测试用）
func InitWithWriter(cfg Config, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05.000"}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// Info 记录info日志
func Info(msg string, fields map[string]interface{}) {
	log.Info().Fields(fields).Msg(msg)
}

// Debug 记录debug日志
func Debug(msg string) {
	log.Debug().Msg(msg)
}

// Error 记录error日志
func Error(msg string, err error) {
	log.Error().Err(err).Msg(msg)
}
