package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/resilient"
)

func TestOpen(t *testing.T) {
	t.Run("内存存储", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}

		storage, cleanup, err := Open(cfg)
		require.NoError(t, err)
		defer cleanup()

		assert.IsType(t, &memory.BookRepository{}, storage.Repository)
		assert.Same(t, storage.Repository, storage.Transactor)
	})

	t.Run("开启熔断时包装仓储", func(t *testing.T) {
		cfg := &config.Config{
			Storage: config.StorageConfig{Driver: config.DriverMemory},
			Breaker: config.BreakerConfig{Enabled: true, MaxRequests: 1, FailureThreshold: 5},
		}

		storage, cleanup, err := Open(cfg)
		require.NoError(t, err)
		defer cleanup()

		assert.IsType(t, &resilient.BookRepository{}, storage.Repository)
		assert.IsType(t, &memory.BookRepository{}, storage.Transactor)
	})

	t.Run("未知驱动", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{Driver: "mongodb"}}

		_, _, err := Open(cfg)
		assert.ErrorContains(t, err, "mongodb")
	})
}
