package mysql

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，storage.driver决定方言（mysql | postgres）
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 选择方言
	dialector, err := newDialector(cfg)
	if err != nil {
		return nil, err
	}

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // 唯一索引冲突统一为gorm.ErrDuplicatedKey
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info().
		Str("driver", cfg.Storage.Driver).
		Str("host", cfg.Database.Host).
		Str("dbname", cfg.Database.DBName).
		Msg("数据库连接成功")

	// 6. 自动迁移表结构
	// 注意：生产环境应使用版本化的迁移脚本
	if err := db.AutoMigrate(&BookModel{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

func newDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Storage.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.Database.MySQLDSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.Database.PostgresDSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Storage.Driver)
	}
}

// Close 关闭底层连接池
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用decimal(10,2)存储，对应domain层的decimal.Decimal
// 2. ISBN有唯一索引，是重复ISBN的最终保证
// 3. 分类单独建索引，用于分类筛选
// 4. 物理删除，没有DeletedAt
type BookModel struct {
	ID            uint            `gorm:"primaryKey"`
	Title         string          `gorm:"size:200;not null;comment:书名"`
	Author        string          `gorm:"size:100;not null;comment:作者"`
	ISBN          string          `gorm:"uniqueIndex:idx_book_isbn;size:13;not null;comment:ISBN号"`
	Publisher     string          `gorm:"size:100;comment:出版社"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:价格"`
	StockQuantity int             `gorm:"not null;default:0;comment:库存数量"`
	Category      string          `gorm:"index:idx_book_category;size:20;not null;comment:分类"`
	Description   string          `gorm:"type:text;comment:图书描述"`
	PublishedDate *time.Time      `gorm:"type:date;comment:出版日期"`
	CreatedAt     time.Time       `gorm:"index:idx_book_created_at;not null;comment:创建时间"`
	UpdatedAt     time.Time       `gorm:"not null;comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}
