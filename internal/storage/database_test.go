package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/nutrisense-api/internal/config"
	"github.com/Brownie44l1/nutrisense-api/internal/food"
	"github.com/Brownie44l1/nutrisense-api/internal/history"
)

func TestNewDB(t *testing.T) {
	t.Run("opens sqlite and migrates", func(t *testing.T) {
		cfg := &config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "nested", "nutrisense.db"),
		}

		db, err := NewDB(cfg)
		require.NoError(t, err)
		defer func() { _ = Close(db) }()

		require.NoError(t, AutoMigrate(db))
		assert.True(t, db.Migrator().HasTable(&history.Entry{}))
		assert.True(t, db.Migrator().HasTable(&food.Food{}))
		assert.True(t, db.Migrator().HasTable(&food.Nutrient{}))

		ctx := context.Background()
		require.NoError(t, history.NewRepository(db).Create(ctx, &history.Entry{PredictedClass: "Yam", Confidence: 0.7}))
		_, total, err := history.NewRepository(db).List(ctx, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		_, err := NewDB(&config.DatabaseConfig{Driver: "oracle"})

		assert.Error(t, err)
	})
}
