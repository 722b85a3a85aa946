package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// txKey context中事务DB的键
type txKey struct{}

// TxManager 事务管理器
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB
// 3. 嵌套调用时GORM自动使用Savepoint
type TxManager struct {
	db *gorm.DB
}

var _ book.Transactor = (*TxManager)(nil)

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn内的所有Repository操作都在同一事务中执行，fn返回error时ROLLBACK，返回nil时COMMIT
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    b, err := bookRepo.FindByID(ctx, id)
//	    if err != nil {
//	        return err
//	    }
//	    if err := b.SetStock(quantity); err != nil {
//	        return err // 回滚
//	    }
//	    return bookRepo.Save(ctx, b)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbFromContext(ctx, m.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext 从context获取事务DB，没有则使用默认DB
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db
}
