package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 存储驱动
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// EnvPrefix 环境变量前缀（如BOOKSHELF_DATABASE_PASSWORD → database.password）
const EnvPrefix = "BOOKSHELF"

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件、.env文件、环境变量覆盖
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Breaker  BreakerConfig  `mapstructure:"breaker"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // mysql | postgres | memory
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	SSLMode         string        `mapstructure:"sslmode"`
	TimeZone        string        `mapstructure:"timezone"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// MySQLDSN 生成MySQL连接字符串
// 格式：user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
// 注意：loc参数需要URL编码（Asia/Shanghai → Asia%2FShanghai）
func (d DatabaseConfig) MySQLDSN() string {
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

// PostgresDSN 生成PostgreSQL连接字符串（pgx keyword/value格式）
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode, d.TimeZone)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // console | json
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"` // OTLP gRPC地址，如localhost:4317
}

// BreakerConfig 存储熔断器配置
type BreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"max_requests"`      // 半开状态允许的探测请求数
	Interval         time.Duration `mapstructure:"interval"`          // 关闭状态下统计窗口
	Timeout          time.Duration `mapstructure:"timeout"`           // 打开状态持续时间
	FailureThreshold uint32        `mapstructure:"failure_threshold"` // 连续失败多少次后熔断
}

// Load 加载配置
// 加载顺序（后者覆盖前者）：
// 1. 内置默认值
// 2. config/config.yaml（BOOKSHELF_ENV=prod时为config.prod.yaml），文件不存在时跳过
// 3. .env文件（存在时加载到进程环境变量）
// 4. 环境变量（如BOOKSHELF_DATABASE_PASSWORD）
//
// paths为配置文件搜索目录，为空时使用./config和.
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取.env文件失败: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	if env := os.Getenv(EnvPrefix + "_ENV"); env != "" {
		v.SetConfigName("config." + env)
	}
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	// 环境变量绑定（database.password → BOOKSHELF_DATABASE_PASSWORD）
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults 默认值
// AutomaticEnv只对已知的key生效，所有配置项都需要有默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("storage.driver", DriverMySQL)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "bookshelf")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "Asia/Shanghai")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "bookshelf-api")
	v.SetDefault("tracing.endpoint", "localhost:4317")

	v.SetDefault("breaker.enabled", true)
	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", time.Minute)
	v.SetDefault("breaker.timeout", 30*time.Second)
	v.SetDefault("breaker.failure_threshold", 5)
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	switch cfg.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("无效的运行模式: %s", cfg.Server.Mode)
	}

	switch cfg.Storage.Driver {
	case DriverMySQL, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("不支持的存储驱动: %s", cfg.Storage.Driver)
	}

	if cfg.Breaker.Enabled && cfg.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("熔断阈值必须大于0")
	}

	return nil
}
