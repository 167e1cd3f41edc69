package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/multivarka/kitchen/internal/infrastructure/config"
	gormRepo "github.com/multivarka/kitchen/internal/infrastructure/persistence/gorm"
	"github.com/multivarka/kitchen/internal/infrastructure/persistence/memory"
)

func TestModule_GraphIsComplete(t *testing.T) {
	err := fx.ValidateApp(
		fx.Supply(ConfigPath("")),
		Module,
	)

	assert.NoError(t, err)
}

func TestNewDatabase_SQLiteInMemory(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Database.Path = ":memory:"

	db, err := NewDatabase(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&gormRepo.ProductModel{}))
	assert.True(t, db.Migrator().HasTable(&gormRepo.CurrentMenuModel{}))
}

func TestNewMenuRepository_FollowsStoreSetting(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Database.Path = ":memory:"
	db, err := NewDatabase(cfg, zap.NewNop())
	require.NoError(t, err)

	cfg.Menu.Store = config.MenuStoreMemory
	assert.IsType(t, &memory.MenuRepository{}, NewMenuRepository(cfg, db, nil, zap.NewNop()))

	cfg.Menu.Store = config.MenuStoreDatabase
	assert.IsType(t, &gormRepo.MenuRepository{}, NewMenuRepository(cfg, db, nil, zap.NewNop()))
}

func TestNewHealthCheck_SkipsRedisWithoutClient(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Database.Path = ":memory:"
	db, err := NewDatabase(cfg, zap.NewNop())
	require.NoError(t, err)

	response := NewHealthCheck(cfg, db, nil, zap.NewNop()).Check(context.Background())

	require.Len(t, response.Checks, 1)
	assert.Equal(t, "database", response.Checks[0].Name)
}
